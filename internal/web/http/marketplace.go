package http

import (
	"net/http"

	"github.com/aussiebroadwan/petsit/pkg/petsdk"
)

// HandleMyPets handles GET /api/pets
//
//	@Summary	My pets
//	@Tags		Pets
//	@Produce	json
//	@Success	200	{array}		petsdk.Pet			"pets"
//	@Failure	401	{object}	httpx.ErrorResponse	"error, message, redirect"
//	@Router		/api/pets [get].
func (h *APIHandler) HandleMyPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.Client.MyPets(r.Context())
	respond(w, r, http.StatusOK, pets, err)
}

// HandleMyPet handles GET /api/pets/{id}
//
//	@Summary	My pet
//	@Tags		Pets
//	@Produce	json
//	@Param		id	path		int					true	"Pet id"
//	@Success	200	{object}	petsdk.Pet			"pet"
//	@Failure	404	{object}	petsdk.Envelope[any]	"API error"
//	@Router		/api/pets/{id} [get].
func (h *APIHandler) HandleMyPet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pet, err := h.Client.MyPet(r.Context(), id)
	respond(w, r, http.StatusOK, pet, err)
}

// HandleListPetSitters handles GET /api/pet-sitters
//
//	@Summary	List pet sitters
//	@Tags		Pet sitters
//	@Produce	json
//	@Success	200	{array}	petsdk.PetSitter	"pet sitters"
//	@Router		/api/pet-sitters [get].
func (h *APIHandler) HandleListPetSitters(w http.ResponseWriter, r *http.Request) {
	sitters, err := h.Client.ListPetSitters(r.Context())
	respond(w, r, http.StatusOK, sitters, err)
}

// HandleGetPetSitter handles GET /api/pet-sitters/{id}
//
//	@Summary	Pet sitter profile
//	@Tags		Pet sitters
//	@Produce	json
//	@Param		id	path		int					true	"Pet sitter id"
//	@Success	200	{object}	petsdk.PetSitter	"pet sitter"
//	@Router		/api/pet-sitters/{id} [get].
func (h *APIHandler) HandleGetPetSitter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sitter, err := h.Client.GetPetSitter(r.Context(), id)
	respond(w, r, http.StatusOK, sitter, err)
}

// HandleRegisterPetSitter handles POST /api/pet-sitters
//
//	@Summary	Become a pet sitter
//	@Tags		Pet sitters
//	@Accept		json
//	@Produce	json
//	@Param		request	body		petsdk.RegisterPetSitterRequest	true	"Pet sitter profile"
//	@Success	201		{object}	petsdk.PetSitter				"registered pet sitter"
//	@Failure	401		{object}	httpx.ErrorResponse				"error, message, redirect"
//	@Router		/api/pet-sitters [post].
func (h *APIHandler) HandleRegisterPetSitter(w http.ResponseWriter, r *http.Request) {
	var req petsdk.RegisterPetSitterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sitter, err := h.Client.RegisterPetSitter(r.Context(), req)
	respond(w, r, http.StatusCreated, sitter, err)
}

// HandleDeletePetSitter handles DELETE /api/pet-sitters/{id}
//
//	@Summary	Remove pet sitter registration
//	@Tags		Pet sitters
//	@Produce	json
//	@Param		id	path		int				true	"Pet sitter id"
//	@Success	200	{object}	StatusResponse	"ok"
//	@Router		/api/pet-sitters/{id} [delete].
func (h *APIHandler) HandleDeletePetSitter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.Client.DeletePetSitter(r.Context(), id)
	respond(w, r, http.StatusOK, statusOK, err)
}

// HandleMyBookings handles GET /api/bookings
//
//	@Summary	My bookings
//	@Tags		Bookings
//	@Produce	json
//	@Success	200	{array}	petsdk.Booking	"bookings"
//	@Router		/api/bookings [get].
func (h *APIHandler) HandleMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Client.MyBookings(r.Context())
	respond(w, r, http.StatusOK, bookings, err)
}

// HandleGetBooking handles GET /api/bookings/{id}
//
//	@Summary	Booking detail
//	@Tags		Bookings
//	@Produce	json
//	@Param		id	path		int				true	"Booking id"
//	@Success	200	{object}	petsdk.Booking	"booking"
//	@Router		/api/bookings/{id} [get].
func (h *APIHandler) HandleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	booking, err := h.Client.GetBooking(r.Context(), id)
	respond(w, r, http.StatusOK, booking, err)
}

// HandleCreateBooking handles POST /api/bookings
//
//	@Summary	Request a booking
//	@Tags		Bookings
//	@Accept		json
//	@Produce	json
//	@Param		request	body		petsdk.CreateBookingRequest	true	"Booking request"
//	@Success	201		{object}	petsdk.Booking				"booking"
//	@Router		/api/bookings [post].
func (h *APIHandler) HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req petsdk.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	booking, err := h.Client.CreateBooking(r.Context(), req)
	respond(w, r, http.StatusCreated, booking, err)
}

// HandleCancelBooking handles POST /api/bookings/{id}/cancel
//
//	@Summary	Cancel a booking
//	@Tags		Bookings
//	@Produce	json
//	@Param		id	path		int				true	"Booking id"
//	@Success	200	{object}	StatusResponse	"ok"
//	@Router		/api/bookings/{id}/cancel [post].
func (h *APIHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.Client.CancelBooking(r.Context(), id)
	respond(w, r, http.StatusOK, statusOK, err)
}
