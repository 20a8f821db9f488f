package db

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mehber/internal/models"
	"mehber/internal/utils"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=mehber port=5432 sslmode=disable TimeZone=Africa/Addis_Ababa"
	}

	var err error
	// TranslateError turns driver unique-violations into gorm.ErrDuplicatedKey,
	// which the like toggle relies on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCategories()
	seedAdmin()
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "Faith & Doctrine", Description: "Questions on the Tewahedo faith, the creed and church teaching"},
		{Name: "Liturgy", Description: "The Divine Liturgy, prayers and the hours"},
		{Name: "Fasting & Feasts", Description: "Fasting seasons, holy days and their observance"},
		{Name: "Sacraments", Description: "Baptism, communion, matrimony and the other mysteries"},
		{Name: "Christian Living", Description: "Daily life, family and walking the faith"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created")
}

// seedAdmin bootstraps one moderator account from the environment so a
// fresh deployment has someone who can answer questions.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	admin := models.User{
		Username:    "admin",
		Email:       email,
		Password:    hash,
		Avatar:      "⛪",
		Role:        models.RoleAdmin,
		IsActivated: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}
	log.Printf("Bootstrap admin %s created", email)
}
