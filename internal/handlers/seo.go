package handlers

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/utils"
)

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

func getSiteURL() string {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	return siteURL
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	siteURL := getSiteURL()
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /dashboard
Disallow: /settings
Disallow: /notifications
Disallow: /admin/

Disallow: /login
Disallow: /signup

Disallow: /like/
Disallow: /report

Sitemap: %s/sitemap.xml

Crawl-delay: 1
`, siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML lists the landing pages, categories, and the 500 most recently
// published questions.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	siteURL := getSiteURL()
	now := time.Now().Format("2006-01-02")

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`

	xml += fmt.Sprintf(`  <url>
    <loc>%s/</loc>
    <lastmod>%s</lastmod>
    <changefreq>daily</changefreq>
    <priority>1.0</priority>
  </url>
`, siteURL, now)

	xml += fmt.Sprintf(`  <url>
    <loc>%s/active</loc>
    <lastmod>%s</lastmod>
    <changefreq>hourly</changefreq>
    <priority>0.9</priority>
  </url>
`, siteURL, now)

	xml += fmt.Sprintf(`  <url>
    <loc>%s/categories</loc>
    <lastmod>%s</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.8</priority>
  </url>
`, siteURL, now)

	var categories []models.Category
	db.DB.Find(&categories)
	for _, category := range categories {
		xml += fmt.Sprintf(`  <url>
    <loc>%s/c/%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>daily</changefreq>
    <priority>0.7</priority>
  </url>
`, siteURL, category.Name, now)
	}

	// cap at 500 questions to keep the sitemap small
	var questions []models.Question
	db.DB.Where("status = ?", models.QuestionPublished).
		Order("created_at DESC").Limit(500).Find(&questions)
	for _, question := range questions {
		lastmod := question.UpdatedAt.Format("2006-01-02")
		daysSinceCreated := time.Since(question.CreatedAt).Hours() / 24
		priority := 0.6
		changefreq := "weekly"

		if daysSinceCreated < 7 {
			priority = 0.8
			changefreq = "daily"
		} else if daysSinceCreated < 30 {
			priority = 0.7
		}

		xml += fmt.Sprintf(`  <url>
    <loc>%s/q/%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, siteURL, question.Qid, lastmod, changefreq, priority)
	}

	xml += `</urlset>`

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}

// RSSFeed serves the 20 most recently published questions as RSS 2.0.
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	siteURL := getSiteURL()
	now := time.Now()

	var questions []models.Question
	db.DB.Preload("User").Preload("Category").
		Where("status = ?", models.QuestionPublished).
		Order("created_at DESC").Limit(20).Find(&questions)

	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Mehber</title>
    <link>` + siteURL + `</link>
    <description>Questions and answers on faith and practice in the Ethiopian Orthodox Tewahedo tradition</description>
    <language>en</language>
    <lastBuildDate>` + now.Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`

	for _, question := range questions {
		link := fmt.Sprintf("%s/q/%s", siteURL, question.Qid)

		content := string(utils.RenderMarkdown(question.Content))
		content += fmt.Sprintf(`<p><a href="%s">Read the answer and discussion</a></p>`, link)

		rss += `    <item>
      <title>` + html.EscapeString(question.Title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + content + `]]></description>
      <author>` + html.EscapeString(question.User.Username) + `</author>
      <category>` + html.EscapeString(question.Category.Name) + `</category>
      <pubDate>` + question.CreatedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`
	}

	rss += `  </channel>
</rss>`

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}
