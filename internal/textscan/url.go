package textscan

import "net/url"

// PathQuery extracts the path-plus-query component of rawURL, in the
// canonical ASCII form robots.Evaluator.IsAllowed expects: beginning
// with "/", query string included verbatim when present.
func PathQuery(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}
