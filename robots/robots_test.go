package robots

import (
	"testing"
	"time"
)

func TestScenarioCrawlDelayOnly(t *testing.T) {
	e := New([]byte("user-agent: testbot\ncrawl-delay: 1\n"), "testbot")
	if !e.UserAgentFound() {
		t.Error("expected user agent found")
	}
	if !e.RulesEmpty() {
		t.Error("expected empty rule set")
	}
	d, ok := e.CrawlDelay()
	if !ok || d != time.Second {
		t.Errorf("crawl delay = %v, %v, want 1s, true", d, ok)
	}
	if !e.IsAllowed("/anything") {
		t.Error("expected everything allowed")
	}
}

func TestScenarioDefaultDisallowAll(t *testing.T) {
	e := New([]byte("user-agent: *\ndisallow: /\n"), "testbot")
	if e.UserAgentFound() {
		t.Error("expected no specific user agent found")
	}
	if !e.DefaultUserAgentFound() {
		t.Error("expected default user agent found")
	}
	if e.IsAllowed("/") || e.IsAllowed("/index.html") {
		t.Error("expected everything disallowed")
	}
}

func TestScenarioAllowFirstWins(t *testing.T) {
	doc := "user-agent: testbot\nallow: /p\ndisallow: /\n"
	e := New([]byte(doc), "testbot")
	if !e.IsAllowed("/page") {
		t.Error("expected /page allowed (prefix of /p, earlier allow wins)")
	}
	if e.IsAllowed("/other") {
		t.Error("expected /other disallowed")
	}
}

func TestScenarioFirstSpecificGroupWinsCrawlDelay(t *testing.T) {
	doc := "user-agent: abcbot\ncrawl-delay: 1\n" +
		"user-agent: testbot\ncrawl-delay: 2\n" +
		"user-agent: defbot\ncrawl-delay: 3\n"
	e := New([]byte(doc), "testbot")
	d, ok := e.CrawlDelay()
	if !ok || d != 2*time.Second {
		t.Errorf("crawl delay = %v, %v, want 2s, true", d, ok)
	}
}

func TestFirstMatchingSpecificGroupWinsRules(t *testing.T) {
	doc := "user-agent: testbot\ndisallow: /a\n" +
		"user-agent: testbot/1\ndisallow: /b\n"
	e := New([]byte(doc), "testbot/1.0")
	if e.IsAllowed("/a") {
		t.Error("expected /a forbidden by the first matching group")
	}
	if !e.IsAllowed("/b") {
		t.Error("expected /b allowed, a later matching group must not override")
	}
}

func TestScenarioEmptyDocument(t *testing.T) {
	e := New(nil, "testbot")
	if e.UserAgentFound() {
		t.Error("expected no user agent found")
	}
	if !e.IsAllowed("/") {
		t.Error("expected everything allowed")
	}
}

func TestCaseSensitivePathMatch(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /fish\n"), "testbot")
	if !e.IsAllowed("/Fish.asp") {
		t.Error("path matching must be case sensitive")
	}
}

func TestPrefixPathMatch(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /fish\n"), "testbot")
	forbidden := []string{"/fish", "/fish.html", "/fish/salmon.html", "/fishheads", "/fishheads/yummy.html", "/fish.php?id=x"}
	for _, p := range forbidden {
		if e.IsAllowed(p) {
			t.Errorf("expected %q forbidden", p)
		}
	}
	allowed := []string{"/catfish", "/?id=fish"}
	for _, p := range allowed {
		if !e.IsAllowed(p) {
			t.Errorf("expected %q allowed", p)
		}
	}
}

func TestDirectoryPathMatch(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /fish/\n"), "testbot")
	allowed := []string{"/fish", "/fish.html"}
	for _, p := range allowed {
		if !e.IsAllowed(p) {
			t.Errorf("expected %q allowed", p)
		}
	}
	forbidden := []string{"/fish/", "/fish/?id=x", "/fish/salmon.htm"}
	for _, p := range forbidden {
		if e.IsAllowed(p) {
			t.Errorf("expected %q forbidden", p)
		}
	}
}

func TestEndAnchorPathMatch(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /123$\n"), "testbot")
	if e.IsAllowed("/123") {
		t.Error("expected /123 forbidden")
	}
	if !e.IsAllowed("/123/") {
		t.Error("expected /123/ allowed")
	}
}

func TestPathMatchBasic(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /123\n"), "testbot")
	allowed := []string{"/", "/index.html", "/12"}
	for _, p := range allowed {
		if !e.IsAllowed(p) {
			t.Errorf("expected %q allowed", p)
		}
	}
	forbidden := []string{"/123", "/123/", "/1234", "/123/456"}
	for _, p := range forbidden {
		if e.IsAllowed(p) {
			t.Errorf("expected %q forbidden", p)
		}
	}
}

func TestPathMatchWithEndSlash(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /123/\n"), "testbot")
	allowed := []string{"/", "/index.html", "/123", "/1234"}
	for _, p := range allowed {
		if !e.IsAllowed(p) {
			t.Errorf("expected %q allowed", p)
		}
	}
	forbidden := []string{"/123/", "/123/456", "/123/456/"}
	for _, p := range forbidden {
		if e.IsAllowed(p) {
			t.Errorf("expected %q forbidden", p)
		}
	}
}

func TestWildcardStart(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /*abc\n"), "testbot")
	if !e.IsAllowed("/123") || !e.IsAllowed("/123ab") {
		t.Error("expected non-matching paths allowed")
	}
	forbidden := []string{"/123abc", "/123/abc", "/123abc456", "/123/abc/456"}
	for _, p := range forbidden {
		if e.IsAllowed(p) {
			t.Errorf("expected %q forbidden", p)
		}
	}
}

func TestWildcardMid(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /123*xyz\n"), "testbot")
	if !e.IsAllowed("/123/qwerty/xy") {
		t.Error("expected /123/qwerty/xy allowed")
	}
	forbidden := []string{"/123qwertyxyz", "/123qwertyxyz/", "/123/qwerty/xyz/789"}
	for _, p := range forbidden {
		if e.IsAllowed(p) {
			t.Errorf("expected %q forbidden", p)
		}
	}
}

func TestWildcardEnd(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /*abc$\n"), "testbot")
	if e.IsAllowed("/123abc") || e.IsAllowed("/123/abc") {
		t.Error("expected exact suffix matches forbidden")
	}
	if !e.IsAllowed("/123/abc/x") {
		t.Error("expected /123/abc/x allowed, suffix doesn't end at 'abc'")
	}
}

func TestCrawlDelayValues(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"1", time.Second, true},
		{".5", 500 * time.Millisecond, true},
		{"1.5", 1500 * time.Millisecond, true},
		{"30", 30 * time.Second, true},
		{"abc", 0, false},
		{"60abc", 0, false},
	}
	for _, c := range cases {
		e := New([]byte("user-agent: testbot\ncrawl-delay: "+c.value+"\n"), "testbot")
		d, ok := e.CrawlDelay()
		if ok != c.ok || (ok && d != c.want) {
			t.Errorf("crawl-delay %q = %v, %v; want %v, %v", c.value, d, ok, c.want, c.ok)
		}
	}
}

func TestCrawlDelayComment(t *testing.T) {
	e := New([]byte("user-agent: testbot\ncrawl-delay: 60#cmt\n"), "testbot")
	d, ok := e.CrawlDelay()
	if !ok || d != 60*time.Second {
		t.Errorf("crawl delay = %v, %v, want 60s, true", d, ok)
	}
}

func TestCrawlDelayMissingEvenWithRules(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: /\n"), "testbot")
	if _, ok := e.CrawlDelay(); ok {
		t.Error("expected no crawl delay set")
	}
}

func TestLineEndingsEquivalent(t *testing.T) {
	variants := []string{
		"user-agent: testbot\ndisallow: /x\n",
		"user-agent: testbot\rdisallow: /x\r",
		"user-agent: testbot\r\ndisallow: /x\r\n",
	}
	for _, v := range variants {
		e := New([]byte(v), "testbot")
		if e.IsAllowed("/x") {
			t.Errorf("variant %q: expected /x forbidden", v)
		}
		if !e.IsAllowed("/y") {
			t.Errorf("variant %q: expected /y allowed", v)
		}
	}
}

func TestSitemapsCollectedIndependentlyOfGrouping(t *testing.T) {
	doc := "sitemap: https://example.com/sitemap1.xml\n" +
		"user-agent: testbot\n" +
		"disallow: /\n" +
		"sitemap: https://example.com/sitemap2.xml\n"
	e := New([]byte(doc), "testbot")
	got := e.Sitemaps()
	want := []string{"https://example.com/sitemap1.xml", "https://example.com/sitemap2.xml"}
	if len(got) != len(want) {
		t.Fatalf("sitemaps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sitemaps[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAgentPositionIrrelevantWithinGroup(t *testing.T) {
	docs := []string{
		"user-agent: testbot\nuser-agent: abcbot\nuser-agent: defbot\ncrawl-delay: 1\n",
		"user-agent: abcbot\nuser-agent: testbot\nuser-agent: defbot\ncrawl-delay: 1\n",
		"user-agent: abcbot\nuser-agent: defbot\nuser-agent: testbot\ncrawl-delay: 1\n",
	}
	for _, doc := range docs {
		e := New([]byte(doc), "testbot")
		if !e.UserAgentFound() {
			t.Errorf("doc %q: expected user agent found", doc)
		}
		d, ok := e.CrawlDelay()
		if !ok || d != time.Second {
			t.Errorf("doc %q: crawl delay = %v, %v", doc, d, ok)
		}
	}
}

func TestSpecificGroupOverridesDefault(t *testing.T) {
	doc := "user-agent: *\ndisallow: /\nuser-agent: testbot\nallow: /\n"
	e := New([]byte(doc), "testbot")
	if !e.IsAllowed("/anything") {
		t.Error("expected specific group's allow to override default disallow")
	}
}

func TestDefaultConsultedOnlyWhenNoSpecificMatch(t *testing.T) {
	doc := "user-agent: *\ndisallow: /\nuser-agent: otherbot\nallow: /\n"
	e := New([]byte(doc), "testbot")
	if e.IsAllowed("/anything") {
		t.Error("expected default group's disallow to apply, no specific match")
	}
}

func TestEmptyPatternNeverMatches(t *testing.T) {
	e := New([]byte("user-agent: testbot\ndisallow: \n"), "testbot")
	if !e.IsAllowed("/anything") {
		t.Error("empty pattern must never match")
	}
}

func TestDirectiveBeforeUserAgentDropped(t *testing.T) {
	doc := "disallow: /\nuser-agent: testbot\nallow: /\n"
	e := New([]byte(doc), "testbot")
	if !e.IsAllowed("/x") {
		t.Error("directive before first user-agent must be dropped")
	}
}

func TestFieldNamesCaseInsensitive(t *testing.T) {
	e := New([]byte("User-Agent: testbot\nDISALLOW: /x\n"), "testbot")
	if e.IsAllowed("/x") {
		t.Error("expected field names matched case-insensitively")
	}
}
