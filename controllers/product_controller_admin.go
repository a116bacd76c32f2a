package controllers

import (
	"fmt"
	"net/http"

	"catalogdemo/database"
	"catalogdemo/models"
	"catalogdemo/odm"

	"github.com/gin-gonic/gin"
)

func CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := database.Products.Insert(ctx, &product); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

func CreateProducts(c *gin.Context) {
	var products []models.Product
	if err := c.ShouldBindJSON(&products); err != nil || len(products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty list of products is required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	batch := make([]*models.Product, len(products))
	for i := range products {
		batch[i] = &products[i]
	}
	if err := database.Products.InsertMany(ctx, batch); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Products created",
		"count":    len(products),
		"products": products,
	})
}

func UpdateProduct(c *gin.Context) {
	objID, ok := paramID(c)
	if !ok {
		return
	}

	var body struct {
		Name        *string          `json:"name" binding:"omitnil,min=1"`
		Description *string          `json:"description"`
		Price       *float64         `json:"price"`
		Num         *int             `json:"num" binding:"omitnil,gte=0"`
		Category    *models.Category `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := odm.Set{}
	if body.Name != nil {
		update[fields.Name] = *body.Name
	}
	if body.Description != nil {
		update[fields.Description] = *body.Description
	}
	if body.Price != nil {
		update[fields.Price] = *body.Price
	}
	if body.Num != nil {
		update[fields.Num] = *body.Num
	}
	if body.Category != nil {
		update[fields.Category] = *body.Category
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := database.Products.Get(ctx, objID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := database.Products.UpdateDocument(ctx, product, update); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

func IncrementProduct(c *gin.Context) {
	objID, ok := paramID(c)
	if !ok {
		return
	}

	var body struct {
		Price *float64 `json:"price"`
		Num   *int     `json:"num"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	inc := odm.Inc{}
	if body.Price != nil {
		inc[fields.Price] = *body.Price
	}
	if body.Num != nil {
		inc[fields.Num] = *body.Num
	}
	if len(inc) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := database.Products.Get(ctx, objID)
	if err != nil {
		respondError(c, err)
		return
	}
	if body.Num != nil && product.Num+*body.Num < 0 {
		respondError(c, fmt.Errorf("%w: num cannot drop below 0", odm.ErrInvalidUpdate))
		return
	}
	if err := database.Products.UpdateDocument(ctx, product, inc); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

func DeleteProduct(c *gin.Context) {
	objID, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := database.Products.FindOne(fields.ID.Eq(objID)).Delete(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted == 0 {
		respondError(c, odm.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "id": objID.Hex()})
}

func DeleteProductsByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := database.Products.Find(fields.CategoryName.Eq(category)).Delete(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Products deleted", "category": category, "deleted": deleted})
}
