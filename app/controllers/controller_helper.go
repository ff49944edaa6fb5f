package controllers

import (
	"sync"

	"github.com/affideck/affideck/app/repository"
	"github.com/affideck/affideck/internal/pkg/affiliates"
	"github.com/affideck/affideck/internal/pkg/database"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

var (
	affiliateService *affiliates.Service
	repositories     *repository.Repositories
	initOnce         sync.Once
)

// InitializeControllers wires the shared affiliate service from the global
// database handle and the env-configured Shopify client. Called once by the
// router during installation.
func InitializeControllers() {
	initOnce.Do(func() {
		repository.InitializeFactory(database.GetDB())
		repositories = repository.GetGlobalRepositories()
		affiliateService = affiliates.NewService(shopify.NewClientFromEnv(), repositories)
	})
}

// SetAffiliateService swaps the shared service; used by handler tests.
func SetAffiliateService(s *affiliates.Service) {
	initOnce.Do(func() {})
	affiliateService = s
}

// SetRepositories swaps the shared repository set; used by handler tests.
func SetRepositories(r *repository.Repositories) {
	initOnce.Do(func() {})
	repositories = r
}

// GetAffiliateService returns the shared service instance.
func GetAffiliateService() *affiliates.Service {
	return affiliateService
}

// GetRepositories returns the shared repository set.
func GetRepositories() *repository.Repositories {
	return repositories
}
