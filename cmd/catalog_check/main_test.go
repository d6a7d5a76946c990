package main

import (
	"testing"

	"typescore/internal/catalog"
)

func TestReportFlagsShortDichotomies(t *testing.T) {
	cat, err := catalog.LoadFile("../../catalog/questions.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if !report(cat, 11) {
		t.Fatalf("expected shipped catalog to satisfy k=11")
	}
	if report(cat, 50) {
		t.Fatalf("expected k=50 to be reported as insufficient")
	}
}
