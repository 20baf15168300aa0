// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/mvs-cms/internal/collection"
	"github.com/olegiv/mvs-cms/internal/model"
)

// HomeEventCount is how many upcoming events the home page shows.
const HomeEventCount = 3

// Loader assembles the data of each public page. A failed read never
// fails the page: the section is left empty and the failure is logged.
type Loader struct {
	catalog *Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewLoader creates a page loader. now defaults to time.Now.
func NewLoader(catalog *Catalog, logger *slog.Logger, now func() time.Time) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Loader{catalog: catalog, logger: logger, now: now}
}

type lister[T any] interface {
	List(ctx context.Context, order ...collection.Order) ([]T, error)
	Table() string
}

type single[T any] interface {
	Get(ctx context.Context) (T, bool, error)
	Table() string
}

// listOrEmpty degrades a failed read to an empty section.
func listOrEmpty[T any](ctx context.Context, l *Loader, s lister[T]) []T {
	items, err := s.List(ctx)
	if err != nil {
		l.logger.Warn("public fetch failed, showing empty section", "table", s.Table(), "error", err)
		return nil
	}
	return items
}

func getOrNil[T any](ctx context.Context, l *Loader, s single[T]) *T {
	item, ok, err := s.Get(ctx)
	if err != nil {
		l.logger.Warn("public fetch failed, showing empty section", "table", s.Table(), "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &item
}

// HomePage is the data of the landing page.
type HomePage struct {
	Banners []model.Banner
	Events  []model.Event
	Gallery []model.GalleryImage
	Videos  []model.Video
}

// Home fetches the landing page sections concurrently.
func (l *Loader) Home(ctx context.Context) HomePage {
	var p HomePage
	var events []model.Event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Banners = listOrEmpty[model.Banner](gctx, l, l.catalog.Banners[SectionHome])
		return nil
	})
	g.Go(func() error {
		events = listOrEmpty[model.Event](gctx, l, l.catalog.Events)
		return nil
	})
	g.Go(func() error {
		p.Gallery = listOrEmpty[model.GalleryImage](gctx, l, l.catalog.Galleries[SectionHome])
		return nil
	})
	g.Go(func() error {
		p.Videos = listOrEmpty[model.Video](gctx, l, l.catalog.Videos)
		return nil
	})
	_ = g.Wait()

	p.Events = Upcoming(events, l.now(), HomeEventCount)
	return p
}

// EventsPage lists every event split around today.
type EventsPage struct {
	Upcoming []model.Event
	Past     []model.Event
}

// Events fetches all events.
func (l *Loader) Events(ctx context.Context) EventsPage {
	upcoming, past := SplitEvents(listOrEmpty[model.Event](ctx, l, l.catalog.Events), l.now())
	return EventsPage{Upcoming: upcoming, Past: past}
}

// FounderPage is the about-the-founder page.
type FounderPage struct {
	Hero    *model.HeroVideo
	Content *model.PageContent
	Gallery []model.GalleryImage
}

// Founder fetches the founder page.
func (l *Loader) Founder(ctx context.Context) FounderPage {
	var p FounderPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Hero = getOrNil[model.HeroVideo](gctx, l, l.catalog.FounderHero)
		return nil
	})
	g.Go(func() error {
		p.Content = getOrNil[model.PageContent](gctx, l, l.catalog.Pages[SectionFounder])
		return nil
	})
	g.Go(func() error {
		p.Gallery = listOrEmpty[model.GalleryImage](gctx, l, l.catalog.Galleries[SectionFounder])
		return nil
	})
	_ = g.Wait()
	return p
}

// Certifications fetches the registration documents.
func (l *Loader) Certifications(ctx context.Context) []model.Certification {
	return listOrEmpty[model.Certification](ctx, l, l.catalog.Certifications)
}

// Page fetches the rich-text content of a section.
func (l *Loader) Page(ctx context.Context, section Section) *model.PageContent {
	return getOrNil[model.PageContent](ctx, l, l.catalog.Pages[section])
}

// HomesPage is the data of the children's home and old age home pages.
// Stories are only kept for the children's home and Content only for the
// old age home.
type HomesPage struct {
	Banners      []model.Banner
	Content      *model.PageContent
	Stories      []model.Story
	Gallery      []model.GalleryImage
	Testimonials []model.Testimonial
}

// ChildrensHome fetches the children's home page concurrently.
func (l *Loader) ChildrensHome(ctx context.Context) HomesPage {
	var p HomesPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Banners = listOrEmpty[model.Banner](gctx, l, l.catalog.Banners[SectionChildrensHome])
		return nil
	})
	g.Go(func() error {
		p.Stories = listOrEmpty[model.Story](gctx, l, l.catalog.Stories)
		return nil
	})
	g.Go(func() error {
		p.Gallery = listOrEmpty[model.GalleryImage](gctx, l, l.catalog.Galleries[SectionChildrensHome])
		return nil
	})
	g.Go(func() error {
		p.Testimonials = listOrEmpty[model.Testimonial](gctx, l, l.catalog.Testimonials[SectionChildrensHome])
		return nil
	})
	_ = g.Wait()
	return p
}

// OldageHome fetches the old age home page concurrently.
func (l *Loader) OldageHome(ctx context.Context) HomesPage {
	var p HomesPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Banners = listOrEmpty[model.Banner](gctx, l, l.catalog.Banners[SectionOldageHome])
		return nil
	})
	g.Go(func() error {
		p.Content = getOrNil[model.PageContent](gctx, l, l.catalog.Pages[SectionOldageHome])
		return nil
	})
	g.Go(func() error {
		p.Gallery = listOrEmpty[model.GalleryImage](gctx, l, l.catalog.Galleries[SectionOldageHome])
		return nil
	})
	g.Go(func() error {
		p.Testimonials = listOrEmpty[model.Testimonial](gctx, l, l.catalog.Testimonials[SectionOldageHome])
		return nil
	})
	_ = g.Wait()
	return p
}

// Donations fetches the payment QR codes.
func (l *Loader) Donations(ctx context.Context) []model.DonationQRCode {
	return listOrEmpty[model.DonationQRCode](ctx, l, l.catalog.Donations)
}

// NewsletterPage lists the newsletters of one language.
type NewsletterPage struct {
	Language    model.Language
	Years       []int
	Year        int
	Newsletters []model.Newsletter
}

// Newsletters fetches newsletters in lang, optionally limited to year.
// Years always lists every year available in that language.
func (l *Loader) Newsletters(ctx context.Context, lang model.Language, year int) NewsletterPage {
	all := FilterByLanguage(listOrEmpty[model.Newsletter](ctx, l, l.catalog.Newsletters), lang)
	return NewsletterPage{
		Language:    lang,
		Years:       Years(all, NewsletterYear),
		Year:        year,
		Newsletters: FilterByYear(all, year, NewsletterYear),
	}
}

// SectionPage is a banners, content and gallery page.
type SectionPage struct {
	Banners []model.Banner
	Content *model.PageContent
	Gallery []model.GalleryImage
}

// Vedapatasala fetches the Bible school page.
func (l *Loader) Vedapatasala(ctx context.Context) SectionPage {
	var p SectionPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Banners = listOrEmpty[model.Banner](gctx, l, l.catalog.Banners[SectionVedapatasala])
		return nil
	})
	g.Go(func() error {
		p.Content = getOrNil[model.PageContent](gctx, l, l.catalog.Pages[SectionVedapatasala])
		return nil
	})
	g.Go(func() error {
		p.Gallery = listOrEmpty[model.GalleryImage](gctx, l, l.catalog.Galleries[SectionVedapatasala])
		return nil
	})
	_ = g.Wait()
	return p
}

// PastorsFellowship fetches the pastors fellowship page.
func (l *Loader) PastorsFellowship(ctx context.Context) SectionPage {
	var p SectionPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Banners = listOrEmpty[model.Banner](gctx, l, l.catalog.Banners[SectionPastorsFellowship])
		return nil
	})
	g.Go(func() error {
		p.Content = getOrNil[model.PageContent](gctx, l, l.catalog.Pages[SectionPastorsFellowship])
		return nil
	})
	_ = g.Wait()
	return p
}

// LeadershipPage lists pastors and the leadership team in admin order.
type LeadershipPage struct {
	Pastors     []model.Pastor
	TeamMembers []model.TeamMember
}

// Leadership fetches the leadership page.
func (l *Loader) Leadership(ctx context.Context) LeadershipPage {
	var p LeadershipPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Pastors = listOrEmpty[model.Pastor](gctx, l, l.catalog.Pastors)
		return nil
	})
	g.Go(func() error {
		p.TeamMembers = listOrEmpty[model.TeamMember](gctx, l, l.catalog.TeamMembers)
		return nil
	})
	_ = g.Wait()
	return p
}

// TVMinistriesPage is the television schedule and recorded videos.
type TVMinistriesPage struct {
	Schedule []model.TVSchedule
	Videos   []model.Video
}

// TVMinistries fetches the TV ministries page.
func (l *Loader) TVMinistries(ctx context.Context) TVMinistriesPage {
	var p TVMinistriesPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Schedule = listOrEmpty[model.TVSchedule](gctx, l, l.catalog.TVSchedule)
		return nil
	})
	g.Go(func() error {
		p.Videos = listOrEmpty[model.Video](gctx, l, l.catalog.Videos)
		return nil
	})
	_ = g.Wait()
	return p
}

// MagazinePage lists magazine issues, newest year first and by month within a year.
type MagazinePage struct {
	Years     []int
	Year      int
	Magazines []model.Magazine
}

// Magazines fetches magazine issues, optionally limited to year.
func (l *Loader) Magazines(ctx context.Context, year int) MagazinePage {
	all := listOrEmpty[model.Magazine](ctx, l, l.catalog.Magazines)
	return MagazinePage{
		Years:     Years(all, MagazineYear),
		Year:      year,
		Magazines: FilterByYear(all, year, MagazineYear),
	}
}

// Logo fetches the site logo, or nil when none has been uploaded.
func (l *Loader) Logo(ctx context.Context) *model.Logo {
	return getOrNil[model.Logo](ctx, l, l.catalog.Logo)
}
