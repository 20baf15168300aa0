// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/model"
)

// Dashboard groups
const (
	groupHome        = "Home"
	groupAbout       = "About"
	groupHomes       = "Homes"
	groupMinistries  = "Ministries"
	groupPublishing  = "Publications"
	groupSchools     = "Bible Schools"
	groupSiteSetting = "Site"
)

// RegisterCatalog adds an admin section for every table in the catalog.
// onLogoChange runs after the logo is replaced.
func (h *AdminHandler) RegisterCatalog(c *content.Catalog, onLogoChange func(r *http.Request)) {
	h.Register(
		h.bannerAdmin("banners", "Home Banners", groupHome, c.Banners[content.SectionHome], content.SectionHome),
		h.galleryAdmin("gallery", "Home Gallery", groupHome, c.Galleries[content.SectionHome], content.SectionHome),
		h.eventAdmin(c.Events),
		h.videoAdmin(c.Videos),

		h.heroVideoAdmin(c.FounderHero),
		h.pageAdmin("founder", "Founder Content", groupAbout, c.Pages[content.SectionFounder], content.SectionFounder),
		h.galleryAdmin("founder-gallery", "Founder Gallery", groupAbout, c.Galleries[content.SectionFounder], content.SectionFounder),
		h.certificationAdmin(c.Certifications),
		h.pageAdmin("our-faith", "Our Faith", groupAbout, c.Pages[content.SectionOurFaith], content.SectionOurFaith),

		h.bannerAdmin("childrens-home-banners", "Children's Home Banners", groupHomes, c.Banners[content.SectionChildrensHome], content.SectionChildrensHome),
		h.storyAdmin(c.Stories),
		h.galleryAdmin("childrens-home-gallery", "Children's Home Gallery", groupHomes, c.Galleries[content.SectionChildrensHome], content.SectionChildrensHome),
		h.testimonialAdmin("childrens-home-testimonials", "Children's Home Testimonials", c.Testimonials[content.SectionChildrensHome]),
		h.bannerAdmin("oldage-home-banners", "Old Age Home Banners", groupHomes, c.Banners[content.SectionOldageHome], content.SectionOldageHome),
		h.pageAdmin("oldage-home", "Old Age Home Content", groupHomes, c.Pages[content.SectionOldageHome], content.SectionOldageHome),
		h.galleryAdmin("oldage-home-gallery", "Old Age Home Gallery", groupHomes, c.Galleries[content.SectionOldageHome], content.SectionOldageHome),
		h.testimonialAdmin("oldage-home-testimonials", "Old Age Home Testimonials", c.Testimonials[content.SectionOldageHome]),

		h.bannerAdmin("vedapatasala-banners", "Veda Patasala Banners", groupSchools, c.Banners[content.SectionVedapatasala], content.SectionVedapatasala),
		h.pageAdmin("vedapatasala", "Veda Patasala Content", groupSchools, c.Pages[content.SectionVedapatasala], content.SectionVedapatasala),
		h.galleryAdmin("vedapatasala-gallery", "Veda Patasala Gallery", groupSchools, c.Galleries[content.SectionVedapatasala], content.SectionVedapatasala),

		h.pastorAdmin(c.Pastors),
		h.teamAdmin(c.TeamMembers),
		h.tvScheduleAdmin(c.TVSchedule),
		h.bannerAdmin("pastors-fellowship-banners", "Pastors Fellowship Banners", groupMinistries, c.Banners[content.SectionPastorsFellowship], content.SectionPastorsFellowship),
		h.pageAdmin("pastors-fellowship", "Pastors Fellowship Content", groupMinistries, c.Pages[content.SectionPastorsFellowship], content.SectionPastorsFellowship),

		h.newsletterAdmin(c.Newsletters),
		h.magazineAdmin(c.Magazines),

		h.donationAdmin(c.Donations),
		h.logoAdmin(c.Logo, onLogoChange),
	)
}

func (h *AdminHandler) bannerAdmin(slug, title, group string, store *content.BannerStore, section content.Section) adminSection {
	return &collectionAdmin[model.Banner, *model.Banner]{
		slug:  slug,
		title: title,
		group: group,
		store: store,
		fields: []Field{
			textField("subtitle", "Subtitle", true),
			{Name: "images", Label: "Images", Type: FieldFiles, Required: true, Accept: acceptImage,
				Help: "Each image becomes its own banner with this subtitle."},
		},
		slots: []mediaSlot[model.Banner]{{
			field:    "images",
			policy:   content.BannerPolicy(section),
			required: true,
			set:      func(b *model.Banner, ref model.MediaRef) { b.Image = ref },
			get:      func(b *model.Banner) model.MediaRef { return b.Image },
		}},
		perFile: true,
		decode: func(form url.Values) (model.Banner, error) {
			return model.Banner{Subtitle: formString(form, "subtitle")}, nil
		},
		summarize: func(b model.Banner) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(b.Image), Primary: b.Subtitle, Link: b.Image.URL}
		},
	}
}

func (h *AdminHandler) galleryAdmin(slug, title, group string, store *content.GalleryStore, section content.Section) adminSection {
	return &collectionAdmin[model.GalleryImage, *model.GalleryImage]{
		slug:  slug,
		title: title,
		group: group,
		store: store,
		fields: []Field{
			textField("title", "Caption", false),
			{Name: "images", Label: "Images", Type: FieldFiles, Required: true, Accept: acceptImage},
		},
		slots: []mediaSlot[model.GalleryImage]{{
			field:    "images",
			policy:   content.GalleryPolicy(section),
			required: true,
			set:      func(g *model.GalleryImage, ref model.MediaRef) { g.Image = ref },
			get:      func(g *model.GalleryImage) model.MediaRef { return g.Image },
		}},
		perFile: true,
		decode: func(form url.Values) (model.GalleryImage, error) {
			return model.GalleryImage{Title: formString(form, "title")}, nil
		},
		summarize: func(g model.GalleryImage) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(g.Image), Primary: g.Title, Link: g.Image.URL}
		},
	}
}

func (h *AdminHandler) testimonialAdmin(slug, title string, store *content.TestimonialStore) adminSection {
	return &collectionAdmin[model.Testimonial, *model.Testimonial]{
		slug:  slug,
		title: title,
		group: groupHomes,
		store: store,
		fields: []Field{
			textareaField("quote", "Quote", true),
			textField("author", "Author", true),
			textField("role", "Role", false),
		},
		decode: func(form url.Values) (model.Testimonial, error) {
			return model.Testimonial{
				Quote:  formString(form, "quote"),
				Author: formString(form, "author"),
				Role:   formString(form, "role"),
			}, nil
		},
		summarize: func(t model.Testimonial) AdminRow {
			return AdminRow{Primary: t.Author, Secondary: t.Quote}
		},
	}
}

func (h *AdminHandler) eventAdmin(store *content.EventStore) adminSection {
	return &collectionAdmin[model.Event, *model.Event]{
		slug:  "events",
		title: "Events",
		group: groupHome,
		store: store,
		fields: []Field{
			textField("title", "Title", true),
			textareaField("description", "Description", true),
			{Name: "date", Label: "Date", Type: FieldDate, Required: true},
			imageField("image", "Image", true),
		},
		slots: []mediaSlot[model.Event]{{
			field:    "image",
			policy:   content.EventImagePolicy,
			required: true,
			set:      func(e *model.Event, ref model.MediaRef) { e.Image = ref },
			get:      func(e *model.Event) model.MediaRef { return e.Image },
		}},
		decode: func(form url.Values) (model.Event, error) {
			return model.Event{
				Title:       formString(form, "title"),
				Description: formString(form, "description"),
				Date:        formString(form, "date"),
			}, nil
		},
		summarize: func(e model.Event) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(e.Image), Primary: e.Title, Secondary: e.Date}
		},
	}
}

func (h *AdminHandler) videoAdmin(store *content.VideoStore) adminSection {
	return &collectionAdmin[model.Video, *model.Video]{
		slug:  "videos",
		title: "Videos",
		group: groupHome,
		store: store,
		fields: []Field{
			{Name: "url", Label: "YouTube URL", Type: FieldURL, Required: true,
				Help: "A youtube.com/watch?v= or youtu.be link."},
		},
		decode: func(form url.Values) (model.Video, error) {
			id, err := model.ExtractVideoID(formString(form, "url"))
			if err != nil {
				return model.Video{}, model.NewValidationError("url", err.Error())
			}
			return model.Video{VideoID: id}, nil
		},
		summarize: func(v model.Video) AdminRow {
			return AdminRow{Primary: v.VideoID, Link: v.EmbedURL()}
		},
	}
}

func (h *AdminHandler) certificationAdmin(store *content.CertStore) adminSection {
	return &collectionAdmin[model.Certification, *model.Certification]{
		slug:  "certifications",
		title: "Certifications",
		group: groupAbout,
		store: store,
		fields: []Field{
			textField("title", "Title", true),
			imageField("image", "Image", true),
			pdfField("pdf", "PDF", true),
		},
		slots: []mediaSlot[model.Certification]{
			{
				field:    "image",
				policy:   content.CertImagePolicy,
				required: true,
				set:      func(c *model.Certification, ref model.MediaRef) { c.Image = ref },
				get:      func(c *model.Certification) model.MediaRef { return c.Image },
			},
			{
				field:    "pdf",
				policy:   content.CertPDFPolicy,
				required: true,
				set:      func(c *model.Certification, ref model.MediaRef) { c.PDF = ref },
				get:      func(c *model.Certification) model.MediaRef { return c.PDF },
			},
		},
		decode: func(form url.Values) (model.Certification, error) {
			return model.Certification{Title: formString(form, "title")}, nil
		},
		summarize: func(c model.Certification) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(c.Image), Primary: c.Title, Link: c.PDF.URL}
		},
	}
}

func (h *AdminHandler) storyAdmin(store *content.StoryStore) adminSection {
	return &collectionAdmin[model.Story, *model.Story]{
		slug:  "childrens-home-stories",
		title: "Children's Home Stories",
		group: groupHomes,
		store: store,
		fields: []Field{
			textField("title", "Title", true),
			textareaField("description", "Story", true),
			imageField("image", "Image", true),
		},
		slots: []mediaSlot[model.Story]{{
			field:    "image",
			policy:   content.StoryImagePolicy,
			required: true,
			set:      func(s *model.Story, ref model.MediaRef) { s.Image = ref },
			get:      func(s *model.Story) model.MediaRef { return s.Image },
		}},
		decode: func(form url.Values) (model.Story, error) {
			return model.Story{
				Title:       formString(form, "title"),
				Description: formString(form, "description"),
			}, nil
		},
		summarize: func(s model.Story) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(s.Image), Primary: s.Title, Secondary: s.Description}
		},
	}
}

func (h *AdminHandler) pastorAdmin(store *content.PastorStore) adminSection {
	return &collectionAdmin[model.Pastor, *model.Pastor]{
		slug:  "pastors",
		title: "Pastors",
		group: groupMinistries,
		store: store,
		fields: []Field{
			textField("name", "Name", true),
			textField("title", "Title", true),
			textareaField("description", "Description", false),
			imageField("image", "Photo", true),
		},
		slots: []mediaSlot[model.Pastor]{{
			field:    "image",
			policy:   content.PastorImagePolicy,
			required: true,
			set:      func(p *model.Pastor, ref model.MediaRef) { p.Image = ref },
			get:      func(p *model.Pastor) model.MediaRef { return p.Image },
		}},
		decode: func(form url.Values) (model.Pastor, error) {
			return model.Pastor{
				Name:        formString(form, "name"),
				Title:       formString(form, "title"),
				Description: formString(form, "description"),
			}, nil
		},
		summarize: func(p model.Pastor) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(p.Image), Primary: p.Name, Secondary: p.Title}
		},
	}
}

func (h *AdminHandler) teamAdmin(store *content.TeamStore) adminSection {
	return &collectionAdmin[model.TeamMember, *model.TeamMember]{
		slug:  "team-members",
		title: "Leadership Team",
		group: groupMinistries,
		store: store,
		fields: []Field{
			textField("name", "Name", true),
			textField("designation", "Designation", true),
			{Name: "facebook_url", Label: "Facebook URL", Type: FieldURL},
			{Name: "twitter_url", Label: "Twitter URL", Type: FieldURL},
			{Name: "instagram_url", Label: "Instagram URL", Type: FieldURL},
			imageField("image", "Photo", true),
		},
		slots: []mediaSlot[model.TeamMember]{{
			field:    "image",
			policy:   content.TeamImagePolicy,
			required: true,
			set:      func(m *model.TeamMember, ref model.MediaRef) { m.Image = ref },
			get:      func(m *model.TeamMember) model.MediaRef { return m.Image },
		}},
		decode: func(form url.Values) (model.TeamMember, error) {
			return model.TeamMember{
				Name:         formString(form, "name"),
				Designation:  formString(form, "designation"),
				FacebookURL:  formString(form, "facebook_url"),
				TwitterURL:   formString(form, "twitter_url"),
				InstagramURL: formString(form, "instagram_url"),
			}, nil
		},
		summarize: func(m model.TeamMember) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(m.Image), Primary: m.Name, Secondary: m.Designation}
		},
	}
}

func (h *AdminHandler) tvScheduleAdmin(store *content.TVScheduleStore) adminSection {
	return &collectionAdmin[model.TVSchedule, *model.TVSchedule]{
		slug:  "tv-schedule",
		title: "TV Schedule",
		group: groupMinistries,
		store: store,
		fields: []Field{
			textField("time", "Time", true),
			textField("channel", "Channel", true),
			textField("program", "Program", true),
			textField("hosts", "Hosts", false),
		},
		decode: func(form url.Values) (model.TVSchedule, error) {
			return model.TVSchedule{
				Time:    formString(form, "time"),
				Channel: formString(form, "channel"),
				Program: formString(form, "program"),
				Hosts:   formString(form, "hosts"),
			}, nil
		},
		summarize: func(s model.TVSchedule) AdminRow {
			return AdminRow{Primary: s.Program, Secondary: s.Time + " · " + s.Channel}
		},
	}
}

func (h *AdminHandler) newsletterAdmin(store *content.NewsletterStore) adminSection {
	languages := make([]Option, 0, len(model.Languages))
	for _, l := range model.Languages {
		languages = append(languages, Option{Value: string(l), Label: l.Label()})
	}

	return &collectionAdmin[model.Newsletter, *model.Newsletter]{
		slug:  "newsletters",
		title: "Newsletters",
		group: groupPublishing,
		store: store,
		fields: []Field{
			{Name: "year", Label: "Year", Type: FieldNumber, Required: true},
			textField("title", "Title", true),
			{Name: "language", Label: "Language", Type: FieldSelect, Required: true, Options: languages},
			{Name: "published_date", Label: "Published", Type: FieldDate, Required: true},
			imageField("image", "Cover image", true),
			pdfField("pdf", "PDF", true),
		},
		slots: []mediaSlot[model.Newsletter]{
			{
				field:    "image",
				policy:   content.NewsletterImagePolicy,
				required: true,
				set:      func(n *model.Newsletter, ref model.MediaRef) { n.Image = ref },
				get:      func(n *model.Newsletter) model.MediaRef { return n.Image },
			},
			{
				field:    "pdf",
				policy:   content.NewsletterPDFPolicy,
				required: true,
				set:      func(n *model.Newsletter, ref model.MediaRef) { n.PDF = ref },
				get:      func(n *model.Newsletter) model.MediaRef { return n.PDF },
			},
		},
		decode: func(form url.Values) (model.Newsletter, error) {
			year, err := formInt(form, "year")
			if err != nil {
				return model.Newsletter{}, err
			}
			return model.Newsletter{
				Year:          year,
				Title:         formString(form, "title"),
				Language:      model.Language(formString(form, "language")),
				PublishedDate: formString(form, "published_date"),
			}, nil
		},
		summarize: func(n model.Newsletter) AdminRow {
			return AdminRow{
				Thumb:     h.binder.ThumbURL(n.Image),
				Primary:   n.Title,
				Secondary: strconv.Itoa(n.Year) + " · " + n.Language.Label(),
				Link:      n.PDF.URL,
			}
		},
	}
}

func (h *AdminHandler) magazineAdmin(store *content.MagazineStore) adminSection {
	months := make([]Option, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, Option{Value: strconv.Itoa(m), Label: (&model.Magazine{Month: m}).MonthName()})
	}

	return &collectionAdmin[model.Magazine, *model.Magazine]{
		slug:  "magazines",
		title: "Magazines",
		group: groupPublishing,
		store: store,
		fields: []Field{
			{Name: "year", Label: "Year", Type: FieldNumber, Required: true},
			{Name: "month", Label: "Month", Type: FieldSelect, Required: true, Options: months},
			textField("title", "Title", false),
			imageField("cover", "Cover", true),
			pdfField("pdf", "PDF", true),
		},
		slots: []mediaSlot[model.Magazine]{
			{
				field:    "cover",
				policy:   content.MagazineCoverPolicy,
				required: true,
				set:      func(m *model.Magazine, ref model.MediaRef) { m.Cover = ref },
				get:      func(m *model.Magazine) model.MediaRef { return m.Cover },
			},
			{
				field:    "pdf",
				policy:   content.MagazinePDFPolicy,
				required: true,
				set:      func(m *model.Magazine, ref model.MediaRef) { m.PDF = ref },
				get:      func(m *model.Magazine) model.MediaRef { return m.PDF },
			},
		},
		decode: func(form url.Values) (model.Magazine, error) {
			year, err := formInt(form, "year")
			if err != nil {
				return model.Magazine{}, err
			}
			month, err := formInt(form, "month")
			if err != nil {
				return model.Magazine{}, err
			}
			return model.Magazine{Year: year, Month: month, Title: formString(form, "title")}, nil
		},
		summarize: func(m model.Magazine) AdminRow {
			return AdminRow{
				Thumb:     h.binder.ThumbURL(m.Cover),
				Primary:   m.MonthName() + " " + strconv.Itoa(m.Year),
				Secondary: m.Title,
				Link:      m.PDF.URL,
			}
		},
	}
}

func (h *AdminHandler) donationAdmin(store *content.DonationStore) adminSection {
	return &collectionAdmin[model.DonationQRCode, *model.DonationQRCode]{
		slug:  "donations",
		title: "Donation QR Codes",
		group: groupSiteSetting,
		store: store,
		fields: []Field{
			textField("name", "Name", true),
			{Name: "payment_link", Label: "Payment link", Type: FieldURL},
			imageField("image", "QR code", true),
		},
		slots: []mediaSlot[model.DonationQRCode]{{
			field:    "image",
			policy:   content.DonationImagePolicy,
			required: true,
			set:      func(d *model.DonationQRCode, ref model.MediaRef) { d.Image = ref },
			get:      func(d *model.DonationQRCode) model.MediaRef { return d.Image },
		}},
		decode: func(form url.Values) (model.DonationQRCode, error) {
			return model.DonationQRCode{
				Name:        formString(form, "name"),
				PaymentLink: formString(form, "payment_link"),
			}, nil
		},
		summarize: func(d model.DonationQRCode) AdminRow {
			return AdminRow{Thumb: h.binder.ThumbURL(d.Image), Primary: d.Name, Link: d.PaymentLink}
		},
	}
}

func (h *AdminHandler) pageAdmin(slug, title, group string, store *content.PageStore, section content.Section) adminSection {
	return &singletonAdmin[model.PageContent, *model.PageContent]{
		slug:  slug,
		title: title,
		group: group,
		path:  RouteContent + "/" + slug,
		store: store,
		slots: []mediaSlot[model.PageContent]{{
			field:  "pdf",
			policy: content.PagePDFPolicy(section),
			set:    func(p *model.PageContent, ref model.MediaRef) { p.PDF = ref },
			get:    func(p *model.PageContent) model.MediaRef { return p.PDF },
		}},
		fields: func(cur model.PageContent) []Field {
			format := cur.Format
			if format == "" {
				format = model.FormatHTML
			}
			return []Field{
				{Name: "title", Label: "Title", Type: FieldText, Required: true, Value: cur.Title},
				{Name: "format", Label: "Format", Type: FieldSelect, Required: true, Value: format, Options: []Option{
					{Value: model.FormatHTML, Label: "HTML"},
					{Value: model.FormatMarkdown, Label: "Markdown"},
				}},
				{Name: "content", Label: "Content", Type: FieldTextarea, Value: cur.Content},
				pdfField("pdf", "PDF download", false),
			}
		},
		decode: func(form url.Values, cur model.PageContent) (model.PageContent, error) {
			cur.Title = formString(form, "title")
			cur.Format = formString(form, "format")
			cur.Content = form.Get("content")
			if form.Get("remove_pdf") != "" {
				cur.PDF = model.MediaRef{}
			}
			return cur, nil
		},
	}
}

func (h *AdminHandler) heroVideoAdmin(store *content.HeroVideoStore) adminSection {
	return &singletonAdmin[model.HeroVideo, *model.HeroVideo]{
		slug:  "founder-hero",
		title: "Founder Hero Video",
		group: groupAbout,
		path:  RouteFounderHero,
		store: store,
		fields: func(cur model.HeroVideo) []Field {
			value := ""
			if cur.VideoID != "" {
				value = "https://www.youtube.com/watch?v=" + cur.VideoID
			}
			return []Field{{Name: "url", Label: "YouTube URL", Type: FieldURL, Required: true, Value: value}}
		},
		decode: func(form url.Values, cur model.HeroVideo) (model.HeroVideo, error) {
			id, err := model.ExtractVideoID(formString(form, "url"))
			if err != nil {
				return cur, model.NewValidationError("url", err.Error())
			}
			cur.VideoID = id
			return cur, nil
		},
		preview: func(cur model.HeroVideo) string { return cur.EmbedURL() },
	}
}

func (h *AdminHandler) logoAdmin(store *content.LogoStore, onChange func(r *http.Request)) adminSection {
	return &singletonAdmin[model.Logo, *model.Logo]{
		slug:  "logo",
		title: "Logo",
		group: groupSiteSetting,
		path:  RouteLogo,
		store: store,
		slots: []mediaSlot[model.Logo]{{
			field:    "image",
			policy:   content.LogoPolicy,
			required: true,
			set:      func(l *model.Logo, ref model.MediaRef) { l.Image = ref },
			get:      func(l *model.Logo) model.MediaRef { return l.Image },
		}},
		fields: func(model.Logo) []Field {
			return []Field{imageField("image", "Logo image", true)}
		},
		decode: func(_ url.Values, cur model.Logo) (model.Logo, error) {
			return cur, nil
		},
		afterSave: onChange,
	}
}
