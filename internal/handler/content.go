package handler

import (
	"encoding/xml"
	"net/http"

	"clinic-web/internal/observability"
)

// Section is one heading and paragraph of a content page.
type Section struct {
	Heading string
	Body    string
}

// ContentPage is a static marketing page.
type ContentPage struct {
	Slug     string
	Title    string
	Summary  string
	Sections []Section
}

// servicePages are the clinic's service lines, in navigation order.
var servicePages = []ContentPage{
	{
		Slug:    "general-gynaecology",
		Title:   "General Gynaecology",
		Summary: "Assessment and treatment of period problems, pelvic pain, fibroids, endometriosis and cervical screening.",
		Sections: []Section{
			{"What we treat", "Heavy or irregular periods, pelvic pain, fibroids, ovarian cysts, endometriosis and abnormal smear results."},
			{"Your first visit", "A consultant takes a full history, examines you where appropriate and arranges any scans on the same day."},
		},
	},
	{
		Slug:    "fertility",
		Title:   "Fertility",
		Summary: "Investigations and treatment for couples and individuals planning a family.",
		Sections: []Section{
			{"Investigations", "Hormone profiles, ovarian reserve testing, tubal patency assessment and semen analysis."},
			{"Treatment", "Ovulation induction, intrauterine insemination and referral for IVF when it is the right option."},
		},
	},
	{
		Slug:    "pregnancy-care",
		Title:   "Pregnancy Care",
		Summary: "Consultant-led antenatal care from booking scan to delivery planning.",
		Sections: []Section{
			{"Antenatal packages", "Regular reviews, dating and anomaly scans, and direct access to your consultant."},
			{"Early pregnancy", "Reassurance scans and prompt assessment of bleeding or pain in early pregnancy."},
		},
	},
	{
		Slug:    "menopause-clinic",
		Title:   "Menopause Clinic",
		Summary: "Personalised advice on symptoms, HRT and long-term health after menopause.",
		Sections: []Section{
			{"Symptom management", "Hot flushes, sleep disturbance, mood changes and vaginal dryness."},
			{"HRT", "Evidence-based discussion of hormone therapy options, risks and alternatives."},
		},
	},
	{
		Slug:    "gynae-oncology",
		Title:   "Gynae-Oncology",
		Summary: "Rapid assessment of suspected gynaecological cancers and follow-up care.",
		Sections: []Section{
			{"Rapid access", "Appointments within days for postmenopausal bleeding, abnormal scans or raised tumour markers."},
			{"Coordinated care", "Work-up with imaging and pathology, and referral to multidisciplinary teams."},
		},
	},
	{
		Slug:    "urogynaecology",
		Title:   "Urogynaecology",
		Summary: "Care for bladder symptoms, incontinence and pelvic organ prolapse.",
		Sections: []Section{
			{"Conditions", "Stress and urge incontinence, overactive bladder and prolapse."},
			{"Treatment", "Pelvic floor physiotherapy, medication and surgical options when needed."},
		},
	},
}

var infoPages = map[string]ContentPage{
	"about": {
		Slug:    "about",
		Title:   "About the Clinic",
		Summary: "An independent women's health practice led by consultant gynaecologists.",
		Sections: []Section{
			{"Our team", "Consultants, specialist nurses and physiotherapists working together under one roof."},
			{"Our approach", "Unhurried appointments, clear explanations and shared decisions about your care."},
		},
	},
	"contact": {
		Slug:    "contact",
		Title:   "Contact Us",
		Summary: "Book an appointment or ask a question.",
		Sections: []Section{
			{"Appointments", "Call the clinic reception on weekdays between 8am and 6pm, or email the bookings team."},
			{"Urgent concerns", "If you are pregnant and have heavy bleeding or severe pain, go to your nearest emergency department."},
		},
	},
}

// ContentHandler serves the static clinic pages.
type ContentHandler struct {
	renderer *Renderer
	pages    map[string]ContentPage
}

func NewContentHandler(renderer *Renderer) *ContentHandler {
	pages := make(map[string]ContentPage, len(servicePages)+len(infoPages))
	for _, p := range servicePages {
		pages[p.Slug] = p
	}
	for slug, p := range infoPages {
		pages[slug] = p
	}
	return &ContentHandler{renderer: renderer, pages: pages}
}

// Home lists the service lines.
func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "home", PageData{
		Title: "Home",
		Data:  servicePages,
	})
}

// Page renders the content page for slug, or 404.
func (h *ContentHandler) Page(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.pages[slug]
		if !ok {
			h.renderer.NotFound(w, r)
			return
		}
		h.renderer.Render(w, r, http.StatusOK, "content", PageData{
			Title: page.Title,
			Data:  page,
		})
	}
}

// Slugs returns every content page slug.
func (h *ContentHandler) Slugs() []string {
	slugs := make([]string, 0, len(servicePages)+len(infoPages))
	for _, p := range servicePages {
		slugs = append(slugs, p.Slug)
	}
	for _, slug := range []string{"about", "contact"} {
		slugs = append(slugs, slug)
	}
	return slugs
}

type urlSet struct {
	XMLName xml.Name  `xml:"urlset"`
	XMLNS   string    `xml:"xmlns,attr"`
	URLs    []siteURL `xml:"url"`
}

type siteURL struct {
	Loc string `xml:"loc"`
}

// Sitemap lists the public pages. Locations are absolute, built from the
// request's host.
func (h *ContentHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	base := scheme + "://" + r.Host

	paths := []string{"/", "/shop"}
	for _, slug := range h.Slugs() {
		paths = append(paths, "/"+slug)
	}
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range paths {
		set.URLs = append(set.URLs, siteURL{Loc: base + p})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		observability.FromContext(r.Context()).Error("failed to write sitemap", observability.Err(err))
	}
}
