package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/toriana04/fraudintel/storage/badger"
)

func pruneCacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-cache",
		Usage: "Delete cached embeddings of an embedding model no longer in use",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "model",
				Usage:    "Embedding model whose vectors are removed",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := configOf(c)
			cache, err := badger.NewVectorCache(cfg.Cache.VectorPath())
			if err != nil {
				return err
			}
			defer cache.Close()

			model := c.String("model")
			n, err := cache.DeleteNamespace(c.Context, model)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "removed %d cached vectors for %s\n", n, model)
			return nil
		},
	}
}
