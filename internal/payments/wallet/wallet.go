package wallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/greenbasket/storefront/internal/config"
)

// Provider tags identify the two supported mobile-wallet gateways.
const (
	ProviderPayFast = "payfast"
	ProviderEasyPay = "easypay"
)

// accountPattern is the wallet account format both gateways require:
// 11 digits starting with 03.
var accountPattern = regexp.MustCompile(`^03\d{9}$`)

// ValidAccountNumber reports whether the number matches the wallet
// account format.
func ValidAccountNumber(number string) bool {
	return accountPattern.MatchString(number)
}

// ValidProvider reports whether the tag names a supported gateway.
func ValidProvider(provider string) bool {
	return provider == ProviderPayFast || provider == ProviderEasyPay
}

// Gateway signs and verifies exchanges with one wallet provider.
type Gateway struct {
	Provider string
	cfg      config.WalletGatewayConfig
}

// NewGateway creates a gateway for the given provider tag.
func NewGateway(provider string, cfg config.WalletGatewayConfig) *Gateway {
	return &Gateway{Provider: provider, cfg: cfg}
}

// InitiateURL is the configured gateway endpoint, used when the
// platform's initiate response does not name one.
func (g *Gateway) InitiateURL() string {
	return g.cfg.InitiateURL
}

// PrepareFields completes the form the shopper's browser posts to the
// gateway: merchant identity and return URL come from the storefront's
// own gateway config, then the signature is computed over the final
// field set. The merchant secret never leaves this process, so the
// signing has to happen here rather than on the platform.
func (g *Gateway) PrepareFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields)+3)
	for k, v := range fields {
		out[k] = v
	}
	if g.cfg.MerchantID != "" {
		out["merchant_id"] = g.cfg.MerchantID
	}
	if g.cfg.CallbackURL != "" {
		out["return_url"] = g.cfg.CallbackURL
	}
	out["signature"] = g.Sign(out)
	return out
}

// Sign computes the signature the gateway expects over a flat field
// set: HMAC-SHA256 of key=value pairs joined in key order.
func (g *Gateway) Sign(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}

	mac := hmac.New(sha256.New, []byte(g.cfg.Secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks a callback's signature field against the shared
// secret. Callbacks without a signature fail verification; the platform
// status check below is still the authority either way.
func (g *Gateway) VerifyCallback(params map[string]string) bool {
	provided := strings.TrimSpace(params["signature"])
	if provided == "" {
		return false
	}
	expected := g.Sign(params)
	return hmac.Equal([]byte(expected), []byte(provided))
}
