package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/validate"

	"github.com/pgvector/pgvector-go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errEmptySeed = errors.New("seed file contains no entries")

type airportSeed struct {
	Airports []models.Airport `yaml:"airports"`
}

type knowledgeSeed struct {
	Chunks []struct {
		Content  string `yaml:"content"`
		Source   string `yaml:"source"`
		Category string `yaml:"category"`
	} `yaml:"chunks"`
}

func readSeed(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decodeSeed(f, out)
}

func decodeSeed(r io.Reader, out interface{}) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("parse seed: %w", err)
	}
	return nil
}

// checkAirports normalises the codes and rejects entries the index cannot use.
func checkAirports(airports []models.Airport) error {
	if len(airports) == 0 {
		return errEmptySeed
	}
	for i := range airports {
		a := &airports[i]
		a.IATA = strings.ToUpper(strings.TrimSpace(a.IATA))
		if err := validate.IATA(a.IATA); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("entry %d (%s): name required", i+1, a.IATA)
		}
	}
	return nil
}

func seedAirportsCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-airports <file.yaml>",
		Short: "Insert or update airports from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed airportSeed
			if err := readSeed(args[0], &seed); err != nil {
				return err
			}
			if err := checkAirports(seed.Airports); err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			for i := range seed.Airports {
				if err := e.store.UpsertAirport(cmd.Context(), &seed.Airports[i]); err != nil {
					return fmt.Errorf("upsert %s: %w", seed.Airports[i].IATA, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d airports seeded\n", len(seed.Airports))
			return nil
		},
	}
}

func seedKnowledgeCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-knowledge <file.yaml>",
		Short: "Embed knowledge-base chunks and store them for the assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed knowledgeSeed
			if err := readSeed(args[0], &seed); err != nil {
				return err
			}
			if len(seed.Chunks) == 0 {
				return errEmptySeed
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			embedder, err := assistant.NewEmbedder(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}

			for i, chunk := range seed.Chunks {
				content := strings.TrimSpace(chunk.Content)
				if content == "" {
					return fmt.Errorf("chunk %d: content required", i+1)
				}
				vec, err := embed(cmd.Context(), embedder, content)
				if err != nil {
					return fmt.Errorf("chunk %d: %w", i+1, err)
				}
				kb := &models.KnowledgeBase{
					Content:   content,
					Source:    chunk.Source,
					Category:  chunk.Category,
					Embedding: pgvector.NewVector(vec),
				}
				if err := e.store.CreateKnowledge(cmd.Context(), kb); err != nil {
					return fmt.Errorf("chunk %d: %w", i+1, err)
				}
			}

			total, err := e.store.CountKnowledge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d chunks seeded, %d in knowledge base\n", len(seed.Chunks), total)
			return nil
		},
	}
}

func embed(ctx context.Context, e assistant.Embedder, text string) ([]float32, error) {
	vec, err := e.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != config.EmbeddingDimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(vec), config.EmbeddingDimensions)
	}
	return vec, nil
}
