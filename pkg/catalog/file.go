package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
)

// FileFetcher reads a collection document from disk. The scope is ignored,
// location narrowing only exists on the remote api.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) FetchProducts(_ context.Context, _ types.FetchScope) ([]types.Product, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var collection types.ProductCollection
	if err := jsoncompat.DecodeReader(file, &collection); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	if collection.Items == nil {
		return []types.Product{}, nil
	}
	return collection.Items, nil
}
