package main

import (
	"fmt"
	"log"
	"os"

	"jbc/internal/version"
	"jbc/pkg/registry"
)

func main() {
	client, err := registry.NewClient(registry.Options{
		Host:     os.Getenv("DOCKER_REGISTRY"),
		Username: os.Getenv("DOCKER_REGISTRY_USER"),
		Password: os.Getenv("DOCKER_REGISTRY_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("[registry] init failed: %v", err)
	}

	if err := client.Ping(); err != nil {
		log.Fatalf("[registry] ping failed: %v", err)
	}

	repo := os.Getenv("DOCKER_REPO")
	tags, err := client.Tags.ListRepositoryTags(repo)
	if err != nil {
		log.Fatalf("[registry] list tags failed: %v", err)
	}

	latest, ok := version.Latest(tags)
	if !ok {
		fmt.Println("no version tags published yet")
		return
	}
	fmt.Printf("latest published version: %s\n", latest)

	next, err := version.ForecastNext(latest, version.Patch)
	if err != nil {
		log.Fatalf("forecast failed: %v", err)
	}
	fmt.Printf("next patch release would be: %s\n", next)
}
