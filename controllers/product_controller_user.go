package controllers

import (
	"net/http"

	"catalogdemo/database"
	"catalogdemo/models"
	"catalogdemo/odm"

	"github.com/gin-gonic/gin"
)

var fields = models.ProductFields

type productQuery struct {
	Category string   `form:"category"`
	Text     string   `form:"q"`
	MaxPrice *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Sort     string   `form:"sort" binding:"omitempty,oneof=price -price"`
	Limit    int64    `form:"limit" binding:"omitempty,gte=0,lte=1000"`
	View     string   `form:"view" binding:"omitempty,oneof=short custom"`
}

func (q productQuery) build() *odm.FindMany[models.Product] {
	var filters []any
	if q.Category != "" {
		filters = append(filters, fields.CategoryName.Eq(q.Category))
	}
	if q.Text != "" {
		filters = append(filters, odm.Text(q.Text))
	}
	if q.MaxPrice != nil {
		filters = append(filters, fields.Price.Lte(*q.MaxPrice))
	}

	query := database.Products.Find(filters...)
	switch q.Sort {
	case "price":
		query = query.Sort(fields.Price.Asc())
	case "-price":
		query = query.Sort(fields.Price.Desc())
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

func GetProducts(c *gin.Context) {
	var params productQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	query := params.build()
	var (
		data any
		n    int
		err  error
	)
	switch params.View {
	case "short":
		var views []models.ProductShortView
		views, err = odm.ProjectTo[models.ProductShortView](ctx, query)
		data, n = views, len(views)
	case "custom":
		var views []models.ProductCustomView
		views, err = odm.ProjectTo[models.ProductCustomView](ctx, query)
		data, n = views, len(views)
	default:
		var products []models.Product
		products, err = query.ToList(ctx)
		data, n = products, len(products)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": n, "data": data})
}

func GetProduct(c *gin.Context) {
	objID, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := database.Products.Get(ctx, objID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": product})
}

func GetCategoryTotals(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	totals, err := odm.AggregateAs[models.TotalCountView](ctx, database.Products.All(), models.TotalPerCategory())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": totals})
}

func GetAveragePrice(c *gin.Context) {
	query := database.Products.All()
	category := c.Query("category")
	if category != "" {
		query = query.Find(fields.CategoryName.Eq(category))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	avg, err := query.Avg(ctx, fields.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Fetch success",
		"category":  category,
		"avg_price": avg,
	})
}
