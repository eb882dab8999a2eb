package extract

// Default selector chains, mirroring the layouts of the job boards the
// pipeline has been pointed at so far. Order matters: more specific
// selectors come first, generic fallbacks last.

// TitleChain locates the job title on a posting page.
func TitleChain() Chain {
	return Chain{
		Text("h1"),
		Text("div.job-title"),
	}
}

// DescriptionChain locates the job description body.
func DescriptionChain() Chain {
	return Chain{
		Text("div.job-description"),
		Text("section.job-description"),
		Text("div.description"),
		Text("section.description"),
	}
}

// CompanyChain locates the hiring company's name.
func CompanyChain() Chain {
	return Chain{
		Text("span.company-name"), Text("div.company-name"), Text("a.company-name"),
		Text("span.employer"), Text("div.employer"), Text("a.employer"),
		Text("span.hiring-company"), Text("div.hiring-company"), Text("a.hiring-company"),
		Text("[data-testid='company-name']"),
		Text("a[href*='company']"),
	}
}

// LocationChain locates the job location.
func LocationChain() Chain {
	return Chain{
		Text("span.job-location"), Text("div.job-location"), Text("p.job-location"),
		Text("span.location"), Text("div.location"), Text("p.location"),
		Text("span.address"), Text("div.address"), Text("p.address"),
		Text("[data-testid='job-location']"),
	}
}

// DateChain locates the publication date text.
func DateChain() Chain {
	return Chain{
		Text("span.date-posted"), Text("div.date-posted"), Text("p.date-posted"),
		Text("span.posted-on"), Text("div.posted-on"), Text("p.posted-on"),
		Text("span.job-date"), Text("div.job-date"), Text("p.job-date"),
		Text("[itemprop='datePosted']"),
		Text("time"),
	}
}

// ApplyLinkChain locates the direct application link, falling back to a
// careers/jobs link on the company side when no apply control exists.
func ApplyLinkChain() Chain {
	return Chain{
		Attr("a.apply-button", "href"),
		Attr("a.application-link", "href"),
		Attr("a[href*='apply']", "href"),
		Attr("a[href*='application']", "href"),
		Attr("a[href*='careers']", "href"),
		Attr("a[href*='jobs']", "href"),
		Attr("a[href*='hiring']", "href"),
	}
}

// ListingLinkChain discovers individual job URLs on a search results page.
func ListingLinkChain() Chain {
	return Chain{
		Attr("a.job-card-link", "href"),
		Attr("a.job-listing-link", "href"),
		Attr("a[data-testid='job-result']", "href"),
		Attr("div.job-result-card a", "href"),
		Attr("li.job-item a", "href"),
	}
}

// NextPageChain locates the "next page" control on a search results page.
func NextPageChain() Chain {
	return Chain{
		Text("a.next-page"),
		Text("button.pagination-next"),
		Text("a[aria-label='Next']"),
		Text("a[rel='next']"),
	}
}
