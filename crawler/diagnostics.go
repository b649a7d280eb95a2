// Package crawler containing the crawling logics and utilities to scrape
// remote resources on the web
package crawler

import (
	"net/url"

	"github.com/temoto/robotstxt"
)

// LenientRobotsCheck cross-checks primaryAllowed (the verdict from the
// crawler's own robots evaluator) against temoto/robotstxt's more
// permissive longest-match algorithm. It exists purely as an operator
// diagnostic: when the two disagree it usually means the robots.txt leans
// on grouping or pattern edge cases the two implementations resolve
// differently, which is worth a look before trusting a crawl over a
// sensitive site.
//
// It is never consulted by Allowed; callers opt in explicitly via the
// CrawlerSettings.LenientDiagnostics setting.
func LenientRobotsCheck(document []byte, userAgent string, link *url.URL, primaryAllowed bool) (agree bool, lenientAllowed bool, err error) {
	data, err := robotstxt.FromBytes(document)
	if err != nil {
		return false, false, err
	}
	group := data.FindGroup(userAgent)
	lenientAllowed = group.Test(link.RequestURI())
	return lenientAllowed == primaryAllowed, lenientAllowed, nil
}
