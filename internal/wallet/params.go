package wallet

import "fmt"

// Params holds the network version bytes and BIP-44 coin type injected
// into the wallet. The derivation engine never hardcodes these, so other
// BIP-32 chains and networks only need another Params value.
type Params struct {
	Name         string
	P2PKHVersion byte
	WIFVersion   byte
	XPubVersion  [4]byte
	CoinType     uint32
}

// LitecoinMainNetParams: address version 0x30 (L-prefix), WIF 0xB0.
var LitecoinMainNetParams = Params{
	Name:         "mainnet",
	P2PKHVersion: 0x30,
	WIFVersion:   0xB0,
	XPubVersion:  [4]byte{0x04, 0x88, 0xB2, 0x1E},
	CoinType:     2,
}

// LitecoinTestNetParams: shared testnet versions, coin type 1 per SLIP-44.
var LitecoinTestNetParams = Params{
	Name:         "testnet",
	P2PKHVersion: 0x6F,
	WIFVersion:   0xEF,
	XPubVersion:  [4]byte{0x04, 0x35, 0x87, 0xCF},
	CoinType:     1,
}

// ParamsForNetwork maps a configured network name to its Params table.
func ParamsForNetwork(network string) (Params, error) {
	switch network {
	case "mainnet":
		return LitecoinMainNetParams, nil
	case "testnet":
		return LitecoinTestNetParams, nil
	default:
		return Params{}, fmt.Errorf("unknown network %q", network)
	}
}
