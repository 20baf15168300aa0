// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"

	// Public pages
	RouteEvents            = "/events"
	RouteFounder           = "/about/founder"
	RouteCertifications    = "/about/certifications"
	RouteOurFaith          = "/about/our-faith"
	RouteChildrensHome     = "/childrens-home"
	RouteOldageHome        = "/oldage-home"
	RouteDonate            = "/donate"
	RouteNewsletter        = "/newsletter/{language}"
	RouteVedapatasala      = "/bible-schools/veda-patasala-vizag"
	RouteLeadership        = "/ministries/leadership"
	RouteTVMinistries      = "/ministries/tv-ministries"
	RouteMagazine          = "/ministries/magazine"
	RoutePastorsFellowship = "/ministries/pastors-fellowship"

	// RouteAdmin is the admin subtree.
	RouteAdmin = "/admin"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteContent prefixes the page content singletons.
	RouteContent = "/content"
	// RouteLogo is the logo singleton.
	RouteLogo = "/logo"
	// RouteFounderHero is the founder hero video singleton.
	RouteFounderHero = "/founder-hero"
	// RouteJobRun runs a background job on demand.
	RouteJobRun = "/jobs/{name}/run"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixReorder is the suffix for reorder routes.
	RouteSuffixReorder = "/reorder"

	// RouteHealth is the health check route.
	RouteHealth = "/health"
)

// Redirect targets.
const (
	redirectAdmin = RouteAdmin
	redirectLogin = RouteAdmin + RouteLogin
)
