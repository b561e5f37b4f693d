package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/geofeed/config"
	"github.com/d60-Lab/geofeed/internal/model"
	"github.com/d60-Lab/geofeed/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Seeds demo posts scattered around a center point for local testing.
// Roughly one degree of latitude is 111 km, so +-0.009 deg keeps most
// posts inside the 1 km feed radius and pushes some just outside it.
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	centerLat, centerLng := 35.0, 135.0
	n := 50
	if s := os.Getenv("N"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			n = v
		}
	}

	now := time.Now()
	for i := 0; i < n; i++ {
		post := &model.Post{
			ID:        uuid.NewString(),
			Lat:       centerLat + (rand.Float64()-0.5)*0.018,
			Lng:       centerLng + (rand.Float64()-0.5)*0.018,
			ImageRef:  fmt.Sprintf("%s.jpg", uuid.NewString()),
			Comment:   fmt.Sprintf("demo post %d", i),
			CreatedAt: now.Add(-time.Duration(rand.Intn(200)) * time.Minute),
		}
		if err := db.Create(post).Error; err != nil {
			panic(err)
		}
	}
	fmt.Printf("seeded %d posts around (%.1f, %.1f)\n", n, centerLat, centerLng)
}
