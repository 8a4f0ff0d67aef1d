package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickbite/internal/modules/catalog"
	"quickbite/internal/types"
)

type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type addRestaurantRequest struct {
	Name         string  `json:"name"`
	OwnerName    string  `json:"owner_name"`
	Mobile       string  `json:"mobile"`
	Email        string  `json:"email"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	FSSAILicense string  `json:"fssai_license"`
	BankAccount  string  `json:"bank_account"`
	BankIFSC     string  `json:"bank_ifsc"`
}

func (h *CatalogHandler) AddRestaurant(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	var req addRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.svc.AddRestaurant(c.Request.Context(), catalog.AddRestaurantCommand{
		Name:         req.Name,
		OwnerName:    req.OwnerName,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Location:     types.Point{Lat: req.Lat, Lng: req.Lng},
		FSSAILicense: req.FSSAILicense,
		BankAccount:  req.BankAccount,
		BankIFSC:     req.BankIFSC,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *CatalogHandler) GetRestaurant(c *gin.Context) {
	r, err := h.svc.GetRestaurant(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

func (h *CatalogHandler) SetRestaurantBlocked(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.svc.SetRestaurantBlocked(c.Request.Context(), types.ID(c.Param("id")), req.Blocked)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *CatalogHandler) NearbyRestaurants(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng query parameters required")
		return
	}
	radius, _ := strconv.ParseFloat(c.Query("radius_km"), 64)
	restaurants, err := h.svc.NearbyRestaurants(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"restaurants": restaurants})
}

type addFoodRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	Rating       string  `json:"rating"`
	DeliveryTime string  `json:"delivery_time"`
	ImageURL     string  `json:"image_url"`
}

func (h *CatalogHandler) AddFood(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	var req addFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	f, err := h.svc.AddFood(c.Request.Context(), catalog.AddFoodCommand{
		RestaurantID: types.ID(c.Param("id")),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Rating:       req.Rating,
		DeliveryTime: req.DeliveryTime,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, f)
}

func (h *CatalogHandler) GetFood(c *gin.Context) {
	f, err := h.svc.GetFood(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, f)
}

func (h *CatalogHandler) ListFoods(c *gin.Context) {
	foods, err := h.svc.ListFoods(c.Request.Context(), types.ID(c.Query("restaurant_id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"foods": foods})
}
