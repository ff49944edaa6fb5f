package statistics

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/affideck/affideck/app/models"
	"github.com/affideck/affideck/app/repository"
	"github.com/affideck/affideck/internal/pkg/cache"
)

const (
	CacheKeyAffiliatesTotal = "statistics:affiliates:total"
	CacheKeyEventsDaily     = "statistics:commission_events:daily:%s" // Format with date YYYY-MM-DD
	CacheExpiration         = 5 * time.Minute
)

var repos *repository.Repositories

// SetRepositories swaps the repository set; used by tests.
func SetRepositories(r *repository.Repositories) {
	repos = r
}

func getRepositories() *repository.Repositories {
	if repos == nil {
		repos = repository.GetGlobalRepositories()
	}
	return repos
}

// DashboardData holds the counters shown on the panel index page.
type DashboardData struct {
	TotalAffiliates int
	EventsToday     int
	LastSync        *models.SyncRun
}

// GetDashboardData assembles the dashboard counters; counts come from the
// cache when warm, the last sync marker always from the store.
func GetDashboardData() DashboardData {
	data := DashboardData{
		TotalAffiliates: GetTotalAffiliates(),
		EventsToday:     GetTodayEvents(),
	}

	run, err := getRepositories().SyncRun.GetLatest()
	if err != nil {
		log.Printf("Error loading last sync run: %v", err)
		return data
	}
	data.LastSync = run
	return data
}

// GetTotalAffiliates returns the mirror row count from cache or store
func GetTotalAffiliates() int {
	val, err := cache.Get(CacheKeyAffiliatesTotal)
	if err != nil {
		count, err := getRepositories().Affiliate.Count()
		if err != nil {
			log.Printf("Error counting affiliates: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyAffiliatesTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching affiliate count: %v", err)
		}
		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return int(count)
}

// GetTodayEvents returns the number of webhook events recorded today from cache or store
func GetTodayEvents() int {
	now := time.Now()
	dailyKey := fmt.Sprintf(CacheKeyEventsDaily, now.Format("2006-01-02"))

	val, err := cache.Get(dailyKey)
	if err != nil {
		// Midnight in the deployment's zone: the cache key and the query
		// bound must agree on what "today" means.
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		count, err := getRepositories().CommissionEvent.CountSince(todayStart)
		if err != nil {
			log.Printf("Error counting today's commission events: %v", err)
			return 0
		}

		if err := cache.Set(dailyKey, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching today's commission events: %v", err)
		}
		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return int(count)
}

// InvalidateCounters drops the cached counters after a mutation so the next
// dashboard render recounts.
func InvalidateCounters() {
	if err := cache.Delete(CacheKeyAffiliatesTotal); err != nil {
		log.Printf("Error invalidating affiliate counter: %v", err)
	}
	today := time.Now().Format("2006-01-02")
	if err := cache.Delete(fmt.Sprintf(CacheKeyEventsDaily, today)); err != nil {
		log.Printf("Error invalidating event counter: %v", err)
	}
}
