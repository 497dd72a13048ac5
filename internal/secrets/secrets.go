// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package secrets defines ProviderSecrets, the immutable per-lane
// bouquet triple from SPEC_FULL.md §3 (spec.md's ProviderSecrets). It has
// no dependency on the fixture builder so that internal/token and
// internal/device can depend on the shape of provider secrets without
// pulling in fixture generation.
package secrets

import "math/big"

// ProviderSecrets holds one lane's three bouquets. Once constructed it is
// never mutated; providers hold only a reference to their own secrets.
type ProviderSecrets struct {
	BouquetA []*big.Int
	BouquetB []*big.Int
	BouquetC []*big.Int
}
