// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content defines the site's collections, where their media lives,
// and how public pages assemble them.
package content

import (
	"database/sql"

	"github.com/olegiv/mvs-cms/internal/collection"
	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/model"
)

// Section identifies a part of the site that has its own banners,
// gallery, testimonials or page content.
type Section string

// Sections
const (
	SectionHome              Section = "home"
	SectionFounder           Section = "founder"
	SectionChildrensHome     Section = "childrens-home"
	SectionOldageHome        Section = "oldage-home"
	SectionVedapatasala      Section = "vedapatasala"
	SectionPastorsFellowship Section = "pastors-fellowship"
	SectionOurFaith          Section = "our-faith"
)

// Store aliases keep the field list readable.
type (
	BannerStore      = collection.Store[model.Banner, *model.Banner]
	EventStore       = collection.Store[model.Event, *model.Event]
	CertStore        = collection.Store[model.Certification, *model.Certification]
	NewsletterStore  = collection.Store[model.Newsletter, *model.Newsletter]
	MagazineStore    = collection.Store[model.Magazine, *model.Magazine]
	GalleryStore     = collection.Store[model.GalleryImage, *model.GalleryImage]
	TeamStore        = collection.Store[model.TeamMember, *model.TeamMember]
	PastorStore      = collection.Store[model.Pastor, *model.Pastor]
	TestimonialStore = collection.Store[model.Testimonial, *model.Testimonial]
	StoryStore       = collection.Store[model.Story, *model.Story]
	DonationStore    = collection.Store[model.DonationQRCode, *model.DonationQRCode]
	VideoStore       = collection.Store[model.Video, *model.Video]
	TVScheduleStore  = collection.Store[model.TVSchedule, *model.TVSchedule]
	LogoStore        = collection.Singleton[model.Logo, *model.Logo]
	HeroVideoStore   = collection.Singleton[model.HeroVideo, *model.HeroVideo]
	PageStore        = collection.Singleton[model.PageContent, *model.PageContent]
)

var (
	newestFirst = []collection.Order{collection.Desc("created_at")}
	byPosition  = []collection.Order{collection.Asc(collection.PositionColumn)}
)

// Catalog holds one store per content table.
type Catalog struct {
	Banners        map[Section]*BannerStore
	Galleries      map[Section]*GalleryStore
	Testimonials   map[Section]*TestimonialStore
	Pages          map[Section]*PageStore
	Events         *EventStore
	Certifications *CertStore
	Newsletters    *NewsletterStore
	Magazines      *MagazineStore
	TeamMembers    *TeamStore
	Pastors        *PastorStore
	Stories        *StoryStore
	Donations      *DonationStore
	Videos         *VideoStore
	TVSchedule     *TVScheduleStore
	Logo           *LogoStore
	FounderHero    *HeroVideoStore
}

// NewCatalog wires a store for every table onto db.
func NewCatalog(db *sql.DB, deps collection.Deps) *Catalog {
	c := &Catalog{
		Banners:      make(map[Section]*BannerStore),
		Galleries:    make(map[Section]*GalleryStore),
		Testimonials: make(map[Section]*TestimonialStore),
		Pages:        make(map[Section]*PageStore),
	}

	for section, table := range map[Section]string{
		SectionHome:              "banners",
		SectionChildrensHome:     "childrens_home_banners",
		SectionOldageHome:        "oldage_home_banners",
		SectionVedapatasala:      "vedapatasala_banners",
		SectionPastorsFellowship: "pastors_fellowship_banners",
	} {
		c.Banners[section] = collection.New[model.Banner](db, collection.Schema{Table: table, Order: newestFirst}, deps)
	}

	for section, table := range map[Section]string{
		SectionHome:          "gallery_images",
		SectionFounder:       "founder_gallery",
		SectionChildrensHome: "childrens_home_gallery",
		SectionOldageHome:    "oldage_home_gallery",
		SectionVedapatasala:  "vedapatasala_gallery",
	} {
		c.Galleries[section] = collection.New[model.GalleryImage](db, collection.Schema{Table: table, Order: newestFirst}, deps)
	}

	for section, table := range map[Section]string{
		SectionChildrensHome: "childrens_home_testimonials",
		SectionOldageHome:    "oldage_home_testimonials",
	} {
		c.Testimonials[section] = collection.New[model.Testimonial](db,
			collection.Schema{Table: table, Order: byPosition, Positioned: true}, deps)
	}

	for section, table := range map[Section]string{
		SectionFounder:           "founder_content",
		SectionOldageHome:        "oldage_home_content",
		SectionPastorsFellowship: "pastors_fellowship_content",
		SectionVedapatasala:      "vedapatasala_content",
		SectionOurFaith:          "our_faith_content",
	} {
		c.Pages[section] = collection.NewSingleton[model.PageContent](db, table, deps)
	}

	c.Events = collection.New[model.Event](db, collection.Schema{
		Table: "events",
		Order: []collection.Order{collection.Asc("date")},
	}, deps)
	c.Certifications = collection.New[model.Certification](db, collection.Schema{Table: "certifications", Order: newestFirst}, deps)
	c.Newsletters = collection.New[model.Newsletter](db, collection.Schema{
		Table: "newsletters",
		Order: []collection.Order{collection.Desc("year"), collection.Desc("published_date")},
	}, deps)
	c.Magazines = collection.New[model.Magazine](db, collection.Schema{
		Table: "magazines",
		Order: []collection.Order{collection.Desc("year"), collection.Asc("month")},
	}, deps)
	c.TeamMembers = collection.New[model.TeamMember](db, collection.Schema{Table: "team_members", Order: byPosition, Positioned: true}, deps)
	c.Pastors = collection.New[model.Pastor](db, collection.Schema{Table: "pastors", Order: byPosition, Positioned: true}, deps)
	c.Stories = collection.New[model.Story](db, collection.Schema{Table: "childrens_home_stories", Order: newestFirst}, deps)
	c.Donations = collection.New[model.DonationQRCode](db, collection.Schema{Table: "donation_qr_codes", Order: newestFirst}, deps)
	c.Videos = collection.New[model.Video](db, collection.Schema{Table: "youtube_videos", Order: newestFirst}, deps)
	c.TVSchedule = collection.New[model.TVSchedule](db, collection.Schema{Table: "tv_schedule", Order: newestFirst}, deps)
	c.Logo = collection.NewSingleton[model.Logo](db, "logo", deps)
	c.FounderHero = collection.NewSingleton[model.HeroVideo](db, "founder_hero_video", deps)

	return c
}

// Media policies. Each media-bearing entity has its own bucket; prefixes
// separate sections or file roles within it.
var (
	EventImagePolicy      = media.Policy{Bucket: "events", Prefix: "events", Kind: model.KindImage}
	CertImagePolicy       = media.Policy{Bucket: "certifications", Prefix: "images", Kind: model.KindImage}
	CertPDFPolicy         = media.Policy{Bucket: "certifications", Prefix: "pdfs", Kind: model.KindPDF}
	NewsletterImagePolicy = media.Policy{Bucket: "newsletters", Prefix: "images", Kind: model.KindImage}
	NewsletterPDFPolicy   = media.Policy{Bucket: "newsletters", Prefix: "pdfs", Kind: model.KindPDF}
	MagazineCoverPolicy   = media.Policy{Bucket: "magazines", Prefix: "covers", Kind: model.KindImage}
	MagazinePDFPolicy     = media.Policy{Bucket: "magazines", Prefix: "pdfs", Kind: model.KindPDF}
	TeamImagePolicy       = media.Policy{Bucket: "team-members", Prefix: "images", Kind: model.KindImage}
	PastorImagePolicy     = media.Policy{Bucket: "pastors", Prefix: "images", Kind: model.KindImage}
	StoryImagePolicy      = media.Policy{Bucket: "childrens-home-stories", Prefix: "images", Kind: model.KindImage}
	DonationImagePolicy   = media.Policy{Bucket: "donation-qr-codes", Prefix: "images", Kind: model.KindImage}
	LogoPolicy            = media.Policy{Bucket: "logo", Prefix: "images", Kind: model.KindImage}
)

// BannerPolicy returns where banners of a section are stored.
func BannerPolicy(s Section) media.Policy {
	return media.Policy{Bucket: "banners", Prefix: string(s), Kind: model.KindImage}
}

// GalleryPolicy returns where gallery images of a section are stored.
func GalleryPolicy(s Section) media.Policy {
	return media.Policy{Bucket: "gallery", Prefix: string(s), Kind: model.KindImage}
}

// PagePDFPolicy returns where the downloadable PDF of a content page is stored.
func PagePDFPolicy(s Section) media.Policy {
	return media.Policy{Bucket: "content", Prefix: string(s), Kind: model.KindPDF}
}
