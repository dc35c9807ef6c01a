package controllers

import (
	"log"
	"net/http"
	"os"

	"application-tracking-api/config"
	"application-tracking-api/models"
	"application-tracking-api/services"

	"github.com/gin-gonic/gin"
)

// ListCatalogScholarships returns catalog rows for target pickers.
func ListCatalogScholarships(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var scholarships []models.Scholarship
	if err := query.Order("title ASC").Find(&scholarships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scholarships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scholarships": scholarships,
		"total":        len(scholarships),
	})
}

// ListCatalogInstitutions returns catalog rows for target pickers.
func ListCatalogInstitutions(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var institutions []models.Institution
	if err := query.Order("name ASC").Find(&institutions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch institutions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"institutions": institutions,
		"total":        len(institutions),
	})
}

// ReloadCatalog re-reads the seed file named by CATALOG_SEED_PATH and
// upserts the mirror. Admin only; wired behind RequireAdmin.
func ReloadCatalog(c *gin.Context) {
	path := os.Getenv("CATALOG_SEED_PATH")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CATALOG_SEED_PATH is not configured"})
		return
	}

	catalog := services.NewCatalogService(nil)
	summary, err := catalog.LoadSeedFile(path)
	if err != nil {
		log.Printf("catalog reload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Catalog reload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog reloaded successfully",
		"summary": summary,
	})
}
