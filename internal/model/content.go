// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// Banner is a full-width hero image with a caption.
type Banner struct {
	Meta
	Subtitle string `validate:"required,max=200"`
	Image    MediaRef
}

func (b *Banner) Columns() []string { return []string{"subtitle", "image_url", "image_key"} }
func (b *Banner) Fields() []any     { return []any{&b.Subtitle, &b.Image.URL, &b.Image.Key} }
func (b *Banner) MediaRefs() []MediaRef {
	return refs(b.Image)
}

// Event is a dated ministry event.
type Event struct {
	Meta
	Title       string `validate:"required,max=200"`
	Description string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Image       MediaRef
}

func (e *Event) Columns() []string {
	return []string{"title", "description", "date", "image_url", "image_key"}
}
func (e *Event) Fields() []any {
	return []any{&e.Title, &e.Description, &e.Date, &e.Image.URL, &e.Image.Key}
}
func (e *Event) MediaRefs() []MediaRef { return refs(e.Image) }

// Day parses the event date. A malformed date yields the zero time.
func (e *Event) Day() time.Time {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Certification is a registration document shown as an image with a PDF download.
type Certification struct {
	Meta
	Title string `validate:"required,max=200"`
	Image MediaRef
	PDF   MediaRef
}

func (c *Certification) Columns() []string {
	return []string{"title", "image_url", "image_key", "pdf_url", "pdf_key"}
}
func (c *Certification) Fields() []any {
	return []any{&c.Title, &c.Image.URL, &c.Image.Key, &c.PDF.URL, &c.PDF.Key}
}
func (c *Certification) MediaRefs() []MediaRef { return refs(c.Image, c.PDF) }

// Newsletter is a yearly newsletter issue in one language.
type Newsletter struct {
	Meta
	Year          int      `validate:"required,gte=1900,lte=2100"`
	Title         string   `validate:"required,max=200"`
	Language      Language `validate:"required,oneof=english norwegian"`
	PublishedDate string   `validate:"required,datetime=2006-01-02"`
	Image         MediaRef
	PDF           MediaRef
}

func (n *Newsletter) Columns() []string {
	return []string{"year", "title", "language", "published_date", "image_url", "image_key", "pdf_url", "pdf_key"}
}
func (n *Newsletter) Fields() []any {
	return []any{&n.Year, &n.Title, &n.Language, &n.PublishedDate, &n.Image.URL, &n.Image.Key, &n.PDF.URL, &n.PDF.Key}
}
func (n *Newsletter) MediaRefs() []MediaRef { return refs(n.Image, n.PDF) }

// Magazine is a monthly magazine issue.
type Magazine struct {
	Meta
	Year  int    `validate:"required,gte=1900,lte=2100"`
	Month int    `validate:"required,min=1,max=12"`
	Title string `validate:"max=200"`
	Cover MediaRef
	PDF   MediaRef
}

func (m *Magazine) Columns() []string {
	return []string{"year", "month", "title", "cover_url", "cover_key", "pdf_url", "pdf_key"}
}
func (m *Magazine) Fields() []any {
	return []any{&m.Year, &m.Month, &m.Title, &m.Cover.URL, &m.Cover.Key, &m.PDF.URL, &m.PDF.Key}
}
func (m *Magazine) MediaRefs() []MediaRef { return refs(m.Cover, m.PDF) }

// MonthName returns the English month name of the issue.
func (m *Magazine) MonthName() string {
	if m.Month < 1 || m.Month > 12 {
		return ""
	}
	return time.Month(m.Month).String()
}

// GalleryImage is a single photo in one of the galleries.
type GalleryImage struct {
	Meta
	Title string `validate:"max=200"`
	Image MediaRef
}

func (g *GalleryImage) Columns() []string     { return []string{"title", "image_url", "image_key"} }
func (g *GalleryImage) Fields() []any         { return []any{&g.Title, &g.Image.URL, &g.Image.Key} }
func (g *GalleryImage) MediaRefs() []MediaRef { return refs(g.Image) }

// TeamMember is a leadership team profile.
type TeamMember struct {
	Meta
	Name         string `validate:"required,max=120"`
	Designation  string `validate:"required,max=120"`
	FacebookURL  string `validate:"omitempty,url"`
	TwitterURL   string `validate:"omitempty,url"`
	InstagramURL string `validate:"omitempty,url"`
	Image        MediaRef
}

func (m *TeamMember) Columns() []string {
	return []string{"name", "designation", "facebook_url", "twitter_url", "instagram_url", "image_url", "image_key"}
}
func (m *TeamMember) Fields() []any {
	return []any{&m.Name, &m.Designation, &m.FacebookURL, &m.TwitterURL, &m.InstagramURL, &m.Image.URL, &m.Image.Key}
}
func (m *TeamMember) MediaRefs() []MediaRef { return refs(m.Image) }

// Pastor is a pastors fellowship profile.
type Pastor struct {
	Meta
	Name        string `validate:"required,max=120"`
	Title       string `validate:"required,max=120"`
	Description string
	Image       MediaRef
}

func (p *Pastor) Columns() []string {
	return []string{"name", "title", "description", "image_url", "image_key"}
}
func (p *Pastor) Fields() []any {
	return []any{&p.Name, &p.Title, &p.Description, &p.Image.URL, &p.Image.Key}
}
func (p *Pastor) MediaRefs() []MediaRef { return refs(p.Image) }

// Testimonial is a quote from a resident, family member or visitor.
type Testimonial struct {
	Meta
	Quote  string `validate:"required"`
	Author string `validate:"required,max=120"`
	Role   string `validate:"max=120"`
}

func (t *Testimonial) Columns() []string { return []string{"quote", "author", "role"} }
func (t *Testimonial) Fields() []any     { return []any{&t.Quote, &t.Author, &t.Role} }

// Story is a children's home story with a photo.
type Story struct {
	Meta
	Title       string `validate:"required,max=200"`
	Description string `validate:"required"`
	Image       MediaRef
}

func (s *Story) Columns() []string {
	return []string{"title", "description", "image_url", "image_key"}
}
func (s *Story) Fields() []any {
	return []any{&s.Title, &s.Description, &s.Image.URL, &s.Image.Key}
}
func (s *Story) MediaRefs() []MediaRef { return refs(s.Image) }

// DonationQRCode is a payment QR code shown on the donate page.
type DonationQRCode struct {
	Meta
	Name        string `validate:"required,max=120"`
	PaymentLink string `validate:"omitempty,url"`
	Image       MediaRef
}

func (d *DonationQRCode) Columns() []string {
	return []string{"name", "payment_link", "image_url", "image_key"}
}
func (d *DonationQRCode) Fields() []any {
	return []any{&d.Name, &d.PaymentLink, &d.Image.URL, &d.Image.Key}
}
func (d *DonationQRCode) MediaRefs() []MediaRef { return refs(d.Image) }

// TVSchedule is one slot of the television ministry schedule.
type TVSchedule struct {
	Meta
	Time    string `validate:"required,max=60"`
	Channel string `validate:"required,max=120"`
	Program string `validate:"required,max=200"`
	Hosts   string `validate:"max=200"`
}

func (s *TVSchedule) Columns() []string { return []string{"time", "channel", "program", "hosts"} }
func (s *TVSchedule) Fields() []any     { return []any{&s.Time, &s.Channel, &s.Program, &s.Hosts} }
