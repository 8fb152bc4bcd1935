package spclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"spprovision/domain/contracts"
)

// joinURL safely joins a base URL with a relative path
func joinURL(base, rel string) string {
	if rel == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if strings.HasPrefix(rel, "/") {
		u.Path = rel
		return u.String()
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += rel
	return u.String()
}

// firstNonEmpty returns the first non-empty string from the provided values
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// odataLiteral quotes s for use inside a '...' OData string literal in a URL path.
func odataLiteral(s string) string {
	return url.PathEscape(strings.ReplaceAll(s, "'", "''"))
}

// listEndpoint builds the REST URL of a list addressed by title, plus an optional suffix.
func listEndpoint(siteURL, listTitle, suffix string) string {
	return fmt.Sprintf("%s/_api/web/lists/GetByTitle('%s')%s",
		strings.TrimRight(siteURL, "/"), odataLiteral(listTitle), suffix)
}

// viewFieldsEndpoint builds the REST URL of a view's field collection.
func viewFieldsEndpoint(siteURL, listTitle, viewTitle, suffix string) string {
	return listEndpoint(siteURL, listTitle,
		fmt.Sprintf("/Views/GetByTitle('%s')/ViewFields%s", odataLiteral(viewTitle), suffix))
}

// isNotFound reports whether err is a SharePoint 404 response.
// gosip surfaces HTTP failures as "<status> :: <body>" strings.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, contracts.ErrNotFound) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "404") ||
		strings.Contains(msg, "404 Not Found") ||
		strings.Contains(msg, "-2130575322") // SPException: list does not exist
}

// wrapNotFound maps a remote 404 onto contracts.ErrNotFound, keeping the original message.
func wrapNotFound(err error) error {
	if err != nil && isNotFound(err) && !errors.Is(err, contracts.ErrNotFound) {
		return fmt.Errorf("%w: %v", contracts.ErrNotFound, err)
	}
	return err
}
