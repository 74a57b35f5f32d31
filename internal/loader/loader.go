// =============================================================================
// Seller Performance Report - Dataset Loader
// =============================================================================
//
// This package turns input files into a types.Dataset.
//
// SUPPORTED INPUTS:
//   - A combined data file:
//       .json : {"sellers": [...], "products": [...], "purchase_records": [...]}
//       .xlsx : sheets named sellers, products and purchase_records
//   - Three separate files, one per dataset, each .json (an array), .csv or
//     .xlsx (first sheet).
//
// JSON items follow the nested purchase record shape (records with an
// "items" array). CSV and XLSX inputs are flat; see table.go.
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/seller-performance-report/internal/config"
	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// ErrUnsupportedFormat is returned for file extensions the loader cannot read.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Load reads the dataset described by in.
func Load(in config.InputConfig) (*types.Dataset, error) {
	if in.DataFile != "" {
		return loadCombined(in)
	}

	if err := (&config.MainConfig{Input: in}).ValidateInput(); err != nil {
		return nil, err
	}

	sellers, err := loadSellers(in.SellersFile, in)
	if err != nil {
		return nil, fmt.Errorf("loading sellers: %w", err)
	}
	products, err := loadProducts(in.ProductsFile, in)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	records, err := loadPurchaseRecords(in.PurchasesFile, in)
	if err != nil {
		return nil, fmt.Errorf("loading purchase records: %w", err)
	}

	return &types.Dataset{Sellers: sellers, Products: products, PurchaseRecords: records}, nil
}

// Files lists the input files named by in, in load order.
func Files(in config.InputConfig) []string {
	if in.DataFile != "" {
		return []string{in.DataFile}
	}
	var files []string
	for _, f := range []string{in.SellersFile, in.ProductsFile, in.PurchasesFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

func loadCombined(in config.InputConfig) (*types.Dataset, error) {
	switch ext(in.DataFile) {
	case ".json":
		return readJSONDataset(in.DataFile)

	case ".xlsx":
		wb, err := openWorkbook(in.DataFile)
		if err != nil {
			return nil, err
		}
		defer wb.Close()

		data := &types.Dataset{}
		t, err := wb.sheet(SheetSellers)
		if err != nil {
			return nil, err
		}
		if data.Sellers, err = decodeSellers(t, in.Columns.Sellers); err != nil {
			return nil, err
		}
		if t, err = wb.sheet(SheetProducts); err != nil {
			return nil, err
		}
		if data.Products, err = decodeProducts(t, in.Columns.Products); err != nil {
			return nil, err
		}
		if t, err = wb.sheet(SheetPurchaseRecords); err != nil {
			return nil, err
		}
		if data.PurchaseRecords, err = decodePurchaseRecords(t, in.Columns.PurchaseRecords); err != nil {
			return nil, err
		}
		return data, nil

	default:
		return nil, fmt.Errorf("%w: combined data file must be .json or .xlsx, got %s", ErrUnsupportedFormat, in.DataFile)
	}
}

// readTable reads a CSV file or the first sheet of a workbook.
func readTable(path string, in config.InputConfig) (*table, error) {
	switch ext(path) {
	case ".csv", ".tsv", ".txt":
		return readCSV(path, in.CSV.Delimiter)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func loadSellers(path string, in config.InputConfig) ([]types.Seller, error) {
	if ext(path) == ".json" {
		var sellers []types.Seller
		if err := readJSON(path, &sellers); err != nil {
			return nil, err
		}
		return sellers, nil
	}
	t, err := readTable(path, in)
	if err != nil {
		return nil, err
	}
	return decodeSellers(t, in.Columns.Sellers)
}

func loadProducts(path string, in config.InputConfig) ([]types.Product, error) {
	if ext(path) == ".json" {
		var products []types.Product
		if err := readJSON(path, &products); err != nil {
			return nil, err
		}
		return products, nil
	}
	t, err := readTable(path, in)
	if err != nil {
		return nil, err
	}
	return decodeProducts(t, in.Columns.Products)
}

func loadPurchaseRecords(path string, in config.InputConfig) ([]types.PurchaseRecord, error) {
	if ext(path) == ".json" {
		var records []types.PurchaseRecord
		if err := readJSON(path, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	t, err := readTable(path, in)
	if err != nil {
		return nil, err
	}
	return decodePurchaseRecords(t, in.Columns.PurchaseRecords)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
