package sdk

import (
	"fmt"
	"strings"
)

type Asset string

const (
	AssetHive       Asset = "hive"
	AssetHiveCons   Asset = "hive_consensus"
	AssetHbd        Asset = "hbd"
	AssetHbdSavings Asset = "hbd_savings"
)

// String returns the raw ticker string for logging.
func (a Asset) String() string {
	return string(a)
}

// ParseAsset normalizes a ticker. Any non empty lower case ticker is accepted so
// the engine can govern custom tokens minted on its own ledger.
// Example payload: sdk.ParseAsset("HIVE")
func ParseAsset(s string) (Asset, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("empty asset")
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return "", fmt.Errorf("invalid asset %q", s)
		}
	}
	return Asset(s), nil
}
