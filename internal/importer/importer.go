// Package importer loads seed websites into the database at startup
package importer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/validators"
)

//go:embed seed.schema.json
var seedSchemaJSON []byte

const seedSchemaURL = "seed.schema.json"

// maxSeedBytes caps how much of a seed file or response is read
const maxSeedBytes = 32 << 20

// Service imports seed data into a database
type Service struct {
	db     database.Database
	schema *jsonschema.Schema
	client *http.Client
}

// NewService creates a new importer service
func NewService(db database.Database) *Service {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(seedSchemaURL, bytes.NewReader(seedSchemaJSON)); err != nil {
		panic(fmt.Sprintf("invalid embedded seed schema: %v", err))
	}

	return &Service{
		db:     db,
		schema: compiler.MustCompile(seedSchemaURL),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ImportFromPath imports websites from a local JSON file or an http(s) URL.
// The whole document must match the seed schema; individual websites with an
// unusable URL or an ID that already exists are skipped and logged.
func (s *Service) ImportFromPath(ctx context.Context, path string) error {
	data, err := s.read(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read seed data from %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse seed data: %w", err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return fmt.Errorf("seed data does not match schema: %w", err)
	}

	var websites []model.Website
	if err := json.Unmarshal(data, &websites); err != nil {
		return fmt.Errorf("failed to decode seed data: %w", err)
	}

	imported, skipped := 0, 0
	now := time.Now().UTC()
	for i := range websites {
		website := &websites[i]

		res := validators.ValidateAndNormalizeURL(website.URL)
		if !res.IsValid {
			log.Printf("Skipping seed website %s: %s", website.ID, res.Error)
			skipped++
			continue
		}
		website.URL = res.NormalizedURL
		website.Title = strings.TrimSpace(website.Title)
		if website.CreatedAt.IsZero() {
			website.CreatedAt = now
		}
		if website.UpdatedAt.IsZero() {
			website.UpdatedAt = website.CreatedAt
		}

		err := s.db.CreateWebsite(ctx, website)
		switch {
		case errors.Is(err, database.ErrAlreadyExists):
			log.Printf("Skipping seed website %s: already exists", website.ID)
			skipped++
		case err != nil:
			return fmt.Errorf("failed to import website %s: %w", website.ID, err)
		default:
			imported++
		}
	}

	log.Printf("Import summary: %d imported, %d skipped", imported, skipped)
	return nil
}

func (s *Service) read(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return os.ReadFile(path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxSeedBytes))
}
