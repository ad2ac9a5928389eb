package agent

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const scrollTemplate = `Navigate to %s and perform a comprehensive exploration:

1. First, take a screenshot to see the initial state
2. Scroll through the entire application systematically:
   - Scroll down page by page
   - Look for navigation menus, buttons, and interactive elements
   - Click on different sections/links to explore different pages
   - Document all the pages and features you discover
3. For each page/section you visit:
   - Take a screenshot
   - Extract the page content and structure
   - Note any forms, buttons, or interactive elements
   - Document the URL and page title
4. Create a comprehensive summary of:
   - All pages visited
   - Key features and functionality discovered
   - Navigation structure
   - Interactive elements found
   - Any forms or user inputs available

Be thorough and systematic in your exploration. Take your time to scroll through everything.`

const searchTemplate = `Navigate to %s and search for the following: "%s"

Perform a thorough search by:
1. Using any search functionality on the site
2. Browsing through different sections and pages
3. Looking for relevant content, documentation, or information
4. Extracting and summarizing any relevant findings
5. Providing specific URLs where the information was found

Focus on finding comprehensive information related to: %s`

// BrowsePrompt passes the caller's task through untouched.
func BrowsePrompt(task string) string {
	return task
}

// ScrollPrompt builds the systematic-exploration instruction for an
// application URL.
func ScrollPrompt(appURL string) string {
	return fmt.Sprintf(scrollTemplate, appURL)
}

// SearchPrompt builds the document-search instruction for a query
// against an application URL.
func SearchPrompt(appURL, query string) string {
	return fmt.Sprintf(searchTemplate, appURL, query, query)
}

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// EstimateTokens approximates the prompt's token count for logging and
// metrics. Falls back to a bytes/4 heuristic if the encoding cannot be
// loaded (for example with no network to fetch the BPE ranks).
func EstimateTokens(prompt string) int {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("o200k_base")
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return (len(prompt) + 3) / 4
	}
	return len(enc.Encode(prompt, nil, nil))
}
