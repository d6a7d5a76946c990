package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"typescore/internal/catalog"
	"typescore/internal/config"
	"typescore/internal/db"
	"typescore/internal/domain"
	"typescore/internal/repository"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func main() {
	path := flag.String("file", "catalog/questions.yaml", "catalog YAML file")
	k := flag.Int("k", 11, "questions required per dichotomy")
	importDB := flag.Bool("import", false, "upsert the catalog into DATABASE_URL")
	flag.Parse()

	cat, err := catalog.LoadFile(*path)
	if err != nil {
		fmt.Printf("%s[invalid]%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	ok := report(cat, *k)
	if !ok {
		os.Exit(1)
	}

	if *importDB {
		if err := importCatalog(cat); err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Printf("%s[imported]%s %d questions\n", colorGreen, colorReset, cat.Len())
	}
}

func report(cat *catalog.Catalog, k int) bool {
	ok := true
	fmt.Printf("questions: %d\n", cat.Len())
	for _, d := range domain.Dichotomies {
		n := cat.Count(d)
		status := colorGreen + "ok" + colorReset
		if n < k {
			status = fmt.Sprintf("%sneed %d%s", colorRed, k, colorReset)
			ok = false
		}
		fmt.Printf("  %s: %3d  %s\n", d, n, status)
	}

	loadings := cat.Loadings()
	fmt.Println("loadings:")
	for _, d := range domain.Dichotomies {
		left, right := d.Left(), d.Right()
		fmt.Printf("  %s %6.2f | %s %6.2f\n", left, loadings[left], right, loadings[right])
	}
	return ok
}

func importCatalog(cat *catalog.Catalog) error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for -import")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewPgQuestionRepository(pool)
	for _, id := range cat.IDs() {
		q, _ := cat.Lookup(id)
		if err := repo.Upsert(ctx, q); err != nil {
			return fmt.Errorf("question %d: %w", id, err)
		}
	}
	return nil
}
