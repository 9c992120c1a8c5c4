package http

import (
	"net/http"

	"github.com/aussiebroadwan/petsit/pkg/petsdk"
)

// Common-code administration. Routes are wrapped with requireSession(true).

// HandleListCodeGroups handles GET /api/code-groups
//
//	@Summary	List code groups
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{array}		petsdk.CodeGroup	"code groups"
//	@Failure	403	{object}	httpx.ErrorResponse	"error, message, redirect"
//	@Router		/api/code-groups [get].
func (h *APIHandler) HandleListCodeGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Client.ListCodeGroups(r.Context())
	respond(w, r, http.StatusOK, groups, err)
}

// HandleCreateCodeGroup handles POST /api/code-groups
//
//	@Summary	Create code group
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		petsdk.CodeGroup		true	"Code group"
//	@Success	201		{object}	petsdk.CodeGroup		"created"
//	@Failure	400		{object}	petsdk.Envelope[any]	"duplicate id"
//	@Router		/api/code-groups [post].
func (h *APIHandler) HandleCreateCodeGroup(w http.ResponseWriter, r *http.Request) {
	var req petsdk.CodeGroup
	if !decodeJSON(w, r, &req) {
		return
	}
	group, err := h.Client.CreateCodeGroup(r.Context(), req)
	respond(w, r, http.StatusCreated, group, err)
}

// HandleUpdateCodeGroup handles PATCH /api/code-groups/{id}
//
//	@Summary	Update code group
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Code group id"
//	@Param		request	body		petsdk.CodeGroup	true	"Code group"
//	@Success	200		{object}	petsdk.CodeGroup	"updated"
//	@Router		/api/code-groups/{id} [patch].
func (h *APIHandler) HandleUpdateCodeGroup(w http.ResponseWriter, r *http.Request) {
	var req petsdk.CodeGroup
	if !decodeJSON(w, r, &req) {
		return
	}
	group, err := h.Client.UpdateCodeGroup(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, group, err)
}

// HandleDeleteCodeGroup handles DELETE /api/code-groups/{id}
//
//	@Summary	Delete code group
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string			true	"Code group id"
//	@Success	200	{object}	StatusResponse	"ok"
//	@Router		/api/code-groups/{id} [delete].
func (h *APIHandler) HandleDeleteCodeGroup(w http.ResponseWriter, r *http.Request) {
	err := h.Client.DeleteCodeGroup(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, statusOK, err)
}

// HandleListCodeDetails handles GET /api/code-groups/{id}/details
//
//	@Summary	List code details of a group
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path	string				true	"Code group id"
//	@Success	200	{array}	petsdk.CodeDetail	"code details"
//	@Router		/api/code-groups/{id}/details [get].
func (h *APIHandler) HandleListCodeDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.Client.ListCodeDetails(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, details, err)
}

// HandleGetCodeDetail handles GET /api/code-details/{id}
//
//	@Summary	Code detail
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string				true	"Code detail id"
//	@Success	200	{object}	petsdk.CodeDetail	"code detail"
//	@Router		/api/code-details/{id} [get].
func (h *APIHandler) HandleGetCodeDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Client.GetCodeDetail(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, detail, err)
}

// HandleCreateCodeDetail handles POST /api/code-details
//
//	@Summary	Create code detail
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		petsdk.CodeDetail	true	"Code detail"
//	@Success	201		{object}	petsdk.CodeDetail	"created"
//	@Router		/api/code-details [post].
func (h *APIHandler) HandleCreateCodeDetail(w http.ResponseWriter, r *http.Request) {
	var req petsdk.CodeDetail
	if !decodeJSON(w, r, &req) {
		return
	}
	detail, err := h.Client.CreateCodeDetail(r.Context(), req)
	respond(w, r, http.StatusCreated, detail, err)
}

// HandleUpdateCodeDetail handles PATCH /api/code-details/{id}
//
//	@Summary	Update code detail
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Code detail id"
//	@Param		request	body		petsdk.CodeDetail	true	"Code detail"
//	@Success	200		{object}	petsdk.CodeDetail	"updated"
//	@Router		/api/code-details/{id} [patch].
func (h *APIHandler) HandleUpdateCodeDetail(w http.ResponseWriter, r *http.Request) {
	var req petsdk.CodeDetail
	if !decodeJSON(w, r, &req) {
		return
	}
	detail, err := h.Client.UpdateCodeDetail(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, detail, err)
}

// HandleDeleteCodeDetail handles DELETE /api/code-details/{id}
//
//	@Summary	Delete code detail
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string			true	"Code detail id"
//	@Success	200	{object}	StatusResponse	"ok"
//	@Router		/api/code-details/{id} [delete].
func (h *APIHandler) HandleDeleteCodeDetail(w http.ResponseWriter, r *http.Request) {
	err := h.Client.DeleteCodeDetail(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, statusOK, err)
}
