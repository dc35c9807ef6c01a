// Command seed-catalog loads a catalog seed file into the mirror tables
// and exits. Useful for first-time setup and CI fixtures.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"application-tracking-api/config"
	"application-tracking-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var path string
	flag.StringVar(&path, "seed", "", "path to the catalog seed JSON (default CATALOG_SEED_PATH)")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CATALOG_SEED_PATH")
	}
	if path == "" {
		log.Fatal("no seed file: pass -seed or set CATALOG_SEED_PATH")
	}

	catalog := services.NewCatalogService(nil)
	summary, err := catalog.LoadSeedFile(path)
	if err != nil {
		log.Fatalf("catalog seed failed: %v", err)
	}

	fmt.Printf("Upserted %d scholarships and %d institutions from %s\n",
		summary.Scholarships, summary.Institutions, path)
}
