package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rizoma-bar/rizoma-app/models"
	"github.com/rizoma-bar/rizoma-app/utils"
)

type CartaController struct {
	DB *gorm.DB
}

func NewCartaController(db *gorm.DB) *CartaController {
	return &CartaController{DB: db}
}

type cartaItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
	Category    string  `json:"category" binding:"required"`
}

func (r cartaItemRequest) validCategory() bool {
	return r.Category == models.CategoryFood || r.Category == models.CategoryDrink
}

// GetCarta -> GET /menu-items (public menu page)
func (cc *CartaController) GetCarta(c *gin.Context) {
	var items []models.CartaItem
	if err := cc.DB.Order("category asc, name asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carta", items)
}

// CreateItem -> POST /menu-items
func (cc *CartaController) CreateItem(c *gin.Context) {
	var req cartaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Faltan campos requeridos"))
		return
	}
	if !req.validCategory() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Categoría inválida"))
		return
	}

	item := models.CartaItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}
	if err := cc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item agregado a la carta", item)
}

// UpdateItem -> PUT /menu-items/:id
func (cc *CartaController) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ID inválido"))
		return
	}

	var req cartaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Faltan campos requeridos"))
		return
	}
	if !req.validCategory() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Categoría inválida"))
		return
	}

	var item models.CartaItem
	if err := cc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Item no encontrado"))
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.ImageURL = req.ImageURL
	item.Category = req.Category

	if err := cc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item actualizado", item)
}

// DeleteItem -> DELETE /menu-items/:id
func (cc *CartaController) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ID inválido"))
		return
	}

	if err := cc.DB.Delete(&models.CartaItem{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item eliminado", gin.H{"id": id})
}
