package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"stellar-gasless-go/internal/models"

	"gopkg.in/yaml.v2"
)

// ErrUnknownAsset is returned when a symbol is not in the catalog.
var ErrUnknownAsset = errors.New("unknown asset symbol")

// XLMAssetCode is the code for the network's native asset.
const XLMAssetCode = "XLM"

// USDCAssetCode is the code for the USDC asset.
const USDCAssetCode = "USDC"

// EURCAssetCode is the code for the EURC asset.
const EURCAssetCode = "EURC"

// USDCAssetIssuerTestnet is the Circle testnet issuer for USDC.
const USDCAssetIssuerTestnet = "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5"

// EURCAssetIssuerTestnet is the Circle testnet issuer for EURC.
const EURCAssetIssuerTestnet = "GB3Q6QDZYTHWT7E5PVS3W7FUT5GVAFC5KSZFFLPU25GO7VTC3NM2ZTVO"

// Catalog is an immutable registry mapping a small fixed set of asset
// symbols to their full identity and precision metadata.
type Catalog struct {
	bySymbol map[string]models.Asset
}

// Default returns the built-in testnet registry: XLM plus the Circle
// testnet stablecoins.
func Default() *Catalog {
	return New([]models.Asset{
		{Code: XLMAssetCode, Issuer: "", Decimals: 7, Name: "Stellar Lumens"},
		{Code: USDCAssetCode, Issuer: USDCAssetIssuerTestnet, Decimals: 7, Name: "USD Coin"},
		{Code: EURCAssetCode, Issuer: EURCAssetIssuerTestnet, Decimals: 7, Name: "Euro Coin"},
	})
}

// New builds a catalog from an explicit asset list. Later entries with a
// duplicate code shadow earlier ones.
func New(list []models.Asset) *Catalog {
	bySymbol := make(map[string]models.Asset, len(list))
	for _, a := range list {
		bySymbol[a.Code] = a
	}
	return &Catalog{bySymbol: bySymbol}
}

type assetsFile struct {
	Assets []models.Asset `yaml:"assets"`
}

// Load reads an asset registry from a YAML file. Every entry needs a code
// and a positive decimal precision; any non-native entry needs an issuer.
func Load(path string) (*Catalog, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var file assetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	for i, a := range file.Assets {
		if a.Code == "" {
			return nil, fmt.Errorf("asset at index %d missing code", i)
		}
		if a.Decimals <= 0 {
			return nil, fmt.Errorf("asset %s missing decimal precision", a.Code)
		}
		if a.Code != XLMAssetCode && a.Issuer == "" {
			return nil, fmt.Errorf("asset %s missing issuer", a.Code)
		}
	}

	return New(file.Assets), nil
}

// Resolve maps a human symbol to its full asset identity.
func (c *Catalog) Resolve(symbol string) (models.Asset, error) {
	asset, ok := c.bySymbol[symbol]
	if !ok {
		return models.Asset{}, fmt.Errorf("%w: %q", ErrUnknownAsset, symbol)
	}
	return asset, nil
}

// Native returns the network's native asset entry.
func (c *Catalog) Native() models.Asset {
	return c.bySymbol[XLMAssetCode]
}

// All returns every asset in the catalog, native first, then by code.
func (c *Catalog) All() []models.Asset {
	list := make([]models.Asset, 0, len(c.bySymbol))
	for _, a := range c.bySymbol {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsNative() != list[j].IsNative() {
			return list[i].IsNative()
		}
		return list[i].Code < list[j].Code
	})
	return list
}
