package scraper

// All DOM selectors live here. They track the mapping service's rendered
// markup and break whenever it changes; keep them in one place so fixing a
// breakage is a one-file change.
const (
	selFeed       = "div[role='feed']"
	selResultCard = "div[role='feed'] div.Nv2PK"
	selResultLink = "a.hfpxzc"
	selCardRating = "span.MW4etd"
	selCardReview = "span.UY7F9"
	selCardRow    = "div.W4Efsd"
	selCardSite   = "a[data-value='Website']"

	selDetailName     = "h1.DUwDvf"
	selDetailCategory = "button[jsaction*='category']"
	selDetailAddress  = "button[data-item-id='address']"
	selDetailPhone    = "button[data-item-id^='phone:tel:']"
	selDetailWebsite  = "a[data-item-id='authority']"
	selDetailRating   = "div.F7nice span[aria-hidden='true']"
	selDetailReviews  = "div.F7nice span[aria-label]"
	selDetailAbout    = "div.PYvSYb"
)

// scrollFeedJS scrolls the result feed to its bottom; the service lazy-loads
// further results on scroll.
const scrollFeedJS = `(() => {
	const feed = document.querySelector("div[role='feed']");
	if (!feed) return 0;
	feed.scrollTo(0, feed.scrollHeight);
	return feed.scrollHeight;
})()`

// resultCountJS counts currently rendered result cards
const resultCountJS = `document.querySelectorAll("div[role='feed'] div.Nv2PK").length`

// endOfListJS detects the "you've reached the end of the list" marker
const endOfListJS = `!!document.querySelector("div[role='feed'] span.HlvSq")`
