package ledger

// Token describes an ERC-20-style contract the adapter knows how to read.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// supportedTokens is the static table of token contracts per chain id.
// Unknown chains yield zero supported tokens.
var supportedTokens = map[uint64][]Token{
	1: {
		{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
		{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
	},
	137: {
		{Address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Symbol: "USDC", Name: "USD Coin (PoS)", Decimals: 6},
		{Address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", Symbol: "DAI", Name: "Dai Stablecoin (PoS)", Decimals: 18},
	},
	11155111: {
		{Address: "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", Symbol: "USDC", Name: "USDC (Sepolia)", Decimals: 6},
	},
	// local devnet chain used by cmd/walletnode
	31337: {
		{Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3", Symbol: "TST", Name: "Test Token", Decimals: 18},
	},
}

var nativeSymbols = map[uint64]string{
	1:        "ETH",
	137:      "MATIC",
	11155111: "ETH",
	31337:    "ETH",
}

// SupportedTokens returns the token table for a chain. The slice is a copy;
// callers cannot mutate the table.
func SupportedTokens(chainID uint64) []Token {
	src := supportedTokens[chainID]
	out := make([]Token, len(src))
	copy(out, src)
	return out
}

func NativeSymbol(chainID uint64) string {
	if s, ok := nativeSymbols[chainID]; ok {
		return s
	}
	return "ETH"
}
