// Package registry holds the static, read-only tables of trusted brands and
// storefronts used to tag search results. Loaded once at process start; no
// write path at request time.
package registry

import (
	"regexp"
	"strings"

	"github.com/bharatpricing/backend/internal/domain"
)

// OfficialDomain is a brand's declared domain, optionally scoped to a path
// prefix (brands often run their regional storefront under one).
type OfficialDomain struct {
	Host       string
	PathPrefix string
}

// Brand is one entry of the trusted-brand table.
type Brand struct {
	ID              string
	DisplayName     string
	Aliases         []string
	Categories      []string
	IsCleanBeauty   bool
	OfficialDomains []OfficialDomain
	PopularSearches []string
}

// Store is one entry of the recognized-storefront table.
type Store struct {
	ID          string
	DisplayName string
	Domains     []string
	Tier        domain.StoreTier
	Categories  []string
}

var brands = []Brand{
	{
		ID: "nike", DisplayName: "Nike", Aliases: []string{"nike"},
		Categories: []string{"fashion", "sports"},
		OfficialDomains: []OfficialDomain{{Host: "nike.com", PathPrefix: "/in/"}},
	},
	{
		ID: "adidas", DisplayName: "Adidas", Aliases: []string{"adidas"},
		Categories: []string{"fashion", "sports"},
		OfficialDomains: []OfficialDomain{{Host: "adidas.co.in", PathPrefix: "/"}},
	},
	{
		ID: "puma", DisplayName: "Puma", Aliases: []string{"puma"},
		Categories: []string{"fashion", "sports"},
		OfficialDomains: []OfficialDomain{{Host: "in.puma.com", PathPrefix: "/"}},
	},
	{
		ID: "hm", DisplayName: "H&M", Aliases: []string{"h&m", "h and m"},
		Categories: []string{"fashion"},
		OfficialDomains: []OfficialDomain{{Host: "www2.hm.com", PathPrefix: "/en_in/"}},
	},
	{
		ID: "michael_kors", DisplayName: "Michael Kors",
		Aliases:    []string{"michael kors", "mk", "michaelkors"},
		Categories: []string{"fashion", "luxury", "accessories"},
		OfficialDomains: []OfficialDomain{
			{Host: "michaelkors.global", PathPrefix: "/in/en/"},
			{Host: "michaelkors.com", PathPrefix: "/in/"},
		},
	},
	{
		ID: "fossil", DisplayName: "Fossil", Aliases: []string{"fossil"},
		Categories: []string{"fashion", "accessories", "watches"},
		OfficialDomains: []OfficialDomain{{Host: "fossil.com", PathPrefix: "/en-in/"}},
	},
	{
		ID: "titan", DisplayName: "Titan", Aliases: []string{"titan"},
		Categories: []string{"accessories", "watches"},
		OfficialDomains: []OfficialDomain{{Host: "titan.co.in", PathPrefix: "/"}},
	},
	{
		ID: "biba", DisplayName: "Biba", Aliases: []string{"biba"},
		Categories: []string{"fashion", "ethnic"},
		OfficialDomains: []OfficialDomain{{Host: "biba.in", PathPrefix: "/"}},
	},
	{
		ID: "fabindia", DisplayName: "Fabindia", Aliases: []string{"fabindia", "fab india"},
		Categories: []string{"fashion", "ethnic", "lifestyle"},
		OfficialDomains: []OfficialDomain{{Host: "fabindia.com", PathPrefix: "/"}},
	},
	{
		ID: "manyavar", DisplayName: "Manyavar", Aliases: []string{"manyavar"},
		Categories: []string{"fashion", "ethnic", "wedding"},
		OfficialDomains: []OfficialDomain{{Host: "manyavar.com", PathPrefix: "/"}},
	},
	{
		ID: "shoppers_stop", DisplayName: "Shoppers Stop", Aliases: []string{"shoppers stop"},
		Categories: []string{"fashion", "beauty"},
		OfficialDomains: []OfficialDomain{{Host: "shoppersstop.com", PathPrefix: "/"}},
	},
	{
		ID: "mac", DisplayName: "M.A.C", Aliases: []string{"m.a.c", "mac", "mac cosmetics"},
		Categories: []string{"beauty", "makeup"},
		OfficialDomains: []OfficialDomain{
			{Host: "maccosmetics.in", PathPrefix: "/"},
			{Host: "maccosmetics.com", PathPrefix: "/"},
		},
	},
	{
		ID: "mamaearth", DisplayName: "Mamaearth", Aliases: []string{"mamaearth"},
		Categories: []string{"beauty", "wellness"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "mamaearth.in", PathPrefix: "/"}},
		PopularSearches: []string{"Mamaearth Face Wash", "Mamaearth Onion Hair Oil", "Mamaearth Vitamin C"},
	},
	{
		ID: "old_school_rituals", DisplayName: "Old School Rituals",
		Aliases:    []string{"old school rituals"},
		Categories: []string{"beauty", "wellness"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "oldschoolrituals.in", PathPrefix: "/"}},
		PopularSearches: []string{"Old School Rituals Skincare", "Old School Rituals Face Wash", "Old School Rituals Oil"},
	},
	{
		ID: "faces_canada", DisplayName: "Faces Canada",
		Aliases:    []string{"faces canada", "facescanada"},
		Categories: []string{"beauty", "makeup"},
		OfficialDomains: []OfficialDomain{{Host: "facescanada.com", PathPrefix: "/"}},
	},
	{
		ID: "forest_essentials", DisplayName: "Forest Essentials",
		Aliases:    []string{"forest essentials"},
		Categories: []string{"beauty", "ayurveda"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "forestessentialsindia.com", PathPrefix: "/"}},
		PopularSearches: []string{"Forest Essentials Soundarya", "Forest Essentials Hair Cleanser"},
	},
	{
		ID: "plum", DisplayName: "Plum Goodness", Aliases: []string{"plum goodness", "plum"},
		Categories: []string{"beauty", "skincare"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "plumgoodness.com", PathPrefix: "/"}},
		PopularSearches: []string{"Plum Green Tea", "Plum Vitamin C Serum"},
	},
	{
		ID: "kama_ayurveda", DisplayName: "Kama Ayurveda", Aliases: []string{"kama ayurveda"},
		Categories: []string{"beauty", "ayurveda"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "kamaayurveda.in", PathPrefix: "/"}},
		PopularSearches: []string{"Kumkumadi Thailam", "Kama Ayurveda Rose Water"},
	},
	{
		ID: "sugar_cosmetics", DisplayName: "Sugar Cosmetics",
		Aliases:    []string{"sugar cosmetics", "sugar"},
		Categories: []string{"beauty", "makeup"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "sugarcosmetics.com", PathPrefix: "/"}},
		PopularSearches: []string{"Sugar Cosmetics Lipstick", "Sugar Kajal"},
	},
	{
		ID: "the_tribe_concepts", DisplayName: "The Tribe Concepts",
		Aliases:    []string{"the tribe concepts", "tribe concepts"},
		Categories: []string{"beauty", "ayurveda"}, IsCleanBeauty: true,
		OfficialDomains: []OfficialDomain{{Host: "thetribeconcepts.com", PathPrefix: "/"}},
		PopularSearches: []string{"Tribe Concepts Face Brightening", "Tribe Concepts Hair Oil"},
	},
}

var stores = []Store{
	{ID: "myntra", DisplayName: "Myntra", Domains: []string{"myntra.com"},
		Tier: domain.TierMarketplace, Categories: []string{"fashion", "beauty", "lifestyle"}},
	{ID: "ajio", DisplayName: "Ajio", Domains: []string{"ajio.com"},
		Tier: domain.TierMarketplace, Categories: []string{"fashion", "lifestyle"}},
	{ID: "tatacliq", DisplayName: "Tata CLiQ", Domains: []string{"tatacliq.com", "luxury.tatacliq.com"},
		Tier: domain.TierMarketplace, Categories: []string{"fashion", "electronics", "luxury"}},
	{ID: "nykaafashion", DisplayName: "Nykaa Fashion", Domains: []string{"nykaafashion.com"},
		Tier: domain.TierMarketplace, Categories: []string{"fashion"}},
	{ID: "amazon", DisplayName: "Amazon", Domains: []string{"amazon.in"},
		Tier: domain.TierMarketplace, Categories: []string{"all"}},
	{ID: "flipkart", DisplayName: "Flipkart", Domains: []string{"flipkart.com"},
		Tier: domain.TierMarketplace, Categories: []string{"all"}},
	{ID: "nykaa", DisplayName: "Nykaa", Domains: []string{"nykaa.com"},
		Tier: domain.TierSpecialist, Categories: []string{"beauty"}},
	{ID: "tira", DisplayName: "Tira", Domains: []string{"tirabeauty.com"},
		Tier: domain.TierSpecialist, Categories: []string{"beauty"}},
	{ID: "purplle", DisplayName: "Purplle", Domains: []string{"purplle.com"},
		Tier: domain.TierSpecialist, Categories: []string{"beauty"}},
	{ID: "sephora_india", DisplayName: "Sephora", Domains: []string{"sephora.in"},
		Tier: domain.TierSpecialist, Categories: []string{"beauty", "luxury"}},
	{ID: "1mg", DisplayName: "Tata 1mg", Domains: []string{"1mg.com"},
		Tier: domain.TierPharmacy, Categories: []string{"wellness", "medicine"}},
	{ID: "pharmeasy", DisplayName: "PharmEasy", Domains: []string{"pharmeasy.in"},
		Tier: domain.TierPharmacy, Categories: []string{"wellness", "medicine"}},
	{ID: "netmeds", DisplayName: "Netmeds", Domains: []string{"netmeds.com"},
		Tier: domain.TierPharmacy, Categories: []string{"wellness", "medicine"}},
	{ID: "apollo247", DisplayName: "Apollo 24|7", Domains: []string{"apollo247.com"},
		Tier: domain.TierPharmacy, Categories: []string{"wellness", "medicine"}},
	{ID: "healthkart", DisplayName: "HealthKart", Domains: []string{"healthkart.com"},
		Tier: domain.TierSpecialist, Categories: []string{"wellness", "supplements"}},
}

// trustedGeneralMarketplaces are the large marketplaces where a recognized
// clean-beauty brand still earns a category-sensitive boost.
var trustedGeneralMarketplaces = map[string]bool{
	"amazon":   true,
	"flipkart": true,
	"nykaa":    true,
	"myntra":   true,
}

// aliasPatterns maps a brand index to compiled word-boundary patterns for
// its aliases, so "mk" cannot fire inside "pumpkin".
var aliasPatterns []map[*regexp.Regexp]bool

func init() {
	aliasPatterns = make([]map[*regexp.Regexp]bool, len(brands))
	for i, b := range brands {
		patterns := make(map[*regexp.Regexp]bool, len(b.Aliases)+1)
		names := append([]string{strings.ToLower(b.DisplayName)}, b.Aliases...)
		for _, alias := range names {
			p := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(alias) + `\b`)
			patterns[p] = true
		}
		aliasPatterns[i] = patterns
	}
}

// Brands returns the full brand table.
func Brands() []Brand { return brands }

// Stores returns the full storefront table.
func Stores() []Store { return stores }

// BrandByAlias detects which registry brand a title most likely names.
// Aliases match on word boundaries only. Returns nil when no brand matches.
func BrandByAlias(title string) *Brand {
	if title == "" {
		return nil
	}
	for i := range brands {
		for p := range aliasPatterns[i] {
			if p.MatchString(title) {
				return &brands[i]
			}
		}
	}
	return nil
}

// StoreByHost looks up a storefront by hostname. A subdomain matches its
// registered parent (m.myntra.com matches myntra.com).
func StoreByHost(host string) *Store {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	if host == "" {
		return nil
	}
	for i := range stores {
		for _, d := range stores[i].Domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return &stores[i]
			}
		}
	}
	return nil
}

// StoreBySourceName matches a storefront by its declared source name, as
// search providers report display names rather than hosts.
func StoreBySourceName(name string) *Store {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	for i := range stores {
		display := strings.ToLower(stores[i].DisplayName)
		if name == display || strings.Contains(name, display) || strings.Contains(display, name) {
			return &stores[i]
		}
	}
	return nil
}

// OfficialDomainFor reports whether host(+path) belongs to the brand's
// declared official storefront, respecting any required path prefix.
func OfficialDomainFor(b *Brand, host, path string) bool {
	if b == nil {
		return false
	}
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	for _, od := range b.OfficialDomains {
		if host != od.Host && !strings.HasSuffix(host, "."+od.Host) && !strings.Contains(host, od.Host) {
			continue
		}
		if od.PathPrefix == "" || od.PathPrefix == "/" {
			return true
		}
		if strings.HasPrefix(path, od.PathPrefix) {
			return true
		}
	}
	return false
}

// IsTrustedGeneralMarketplace reports whether the store is on the short
// list of large marketplaces trusted to carry clean-beauty brands.
func IsTrustedGeneralMarketplace(s *Store) bool {
	return s != nil && trustedGeneralMarketplaces[s.ID]
}
