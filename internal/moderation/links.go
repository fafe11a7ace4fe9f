package moderation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aegisproj/aegis/backend/internal/models"
)

var shortenerDomains = map[string]struct{}{
	"bit.ly":       {},
	"tinyurl.com":  {},
	"goo.gl":       {},
	"t.co":         {},
	"ow.ly":        {},
	"is.gd":        {},
	"buff.ly":      {},
	"rebrand.ly":   {},
	"cutt.ly":      {},
	"shorturl.at":  {},
	"tiny.cc":      {},
	"rb.gy":        {},
	"s.id":         {},
	"short.link":   {},
	"surl.li":      {},
	"v.gd":         {},
	"qr.ae":        {},
	"adf.ly":       {},
	"lnkd.in":      {},
	"trib.al":      {},
}

// LinkSafetyDetector classifies each attached link independently: URL
// shorteners hide destinations, "secure"/"verify" domains are a phishing
// heuristic, and unparsable URLs degrade to a low-severity flag rather than
// an error.
type LinkSafetyDetector struct{}

func NewLinkSafetyDetector() *LinkSafetyDetector { return &LinkSafetyDetector{} }

func (d *LinkSafetyDetector) Name() string { return "link_safety" }

func (d *LinkSafetyDetector) Detect(item models.ContentItem, cfg models.ModerationConfig) []models.ModerationFlag {
	var flags []models.ModerationFlag
	for _, raw := range item.Metadata.LinkURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			flags = append(flags, models.ModerationFlag{
				Type:        models.FlagTypeInappropriate,
				Severity:    models.SeverityLow,
				Description: "unparsable link",
				Confidence:  0.5,
				Evidence:    []string{truncate(raw, 60)},
			})
			continue
		}

		host := strings.ToLower(u.Hostname())
		if _, ok := shortenerDomains[host]; ok {
			flags = append(flags, models.ModerationFlag{
				Type:        models.FlagTypeSpam,
				Severity:    models.SeverityMedium,
				Description: fmt.Sprintf("link uses URL shortener %s", host),
				Confidence:  0.7,
				Evidence:    []string{truncate(raw, 60)},
			})
			continue
		}

		if strings.Contains(host, "secure") || strings.Contains(host, "verify") {
			flags = append(flags, models.ModerationFlag{
				Type:        models.FlagTypeSpam,
				Severity:    models.SeverityHigh,
				Description: fmt.Sprintf("possible phishing domain %s", host),
				Confidence:  0.8,
				Evidence:    []string{truncate(raw, 60)},
			})
		}
	}
	return flags
}
