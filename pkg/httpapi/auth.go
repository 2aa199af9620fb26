// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package httpapi

import (
	"encoding/base64"
	"net/http"
	"strconv"
)

// AuthProvider applies authentication to outgoing requests.
type AuthProvider interface {
	Apply(req *http.Request)
}

// BearerAuth authenticates with a bearer token.
type BearerAuth struct {
	Token string
}

func (a BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// BasicAuth authenticates with a username and password.
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) Apply(req *http.Request) {
	creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	req.Header.Set("Authorization", "Basic "+creds)
}

// OrgAuth wraps another provider and scopes requests to a Grafana
// organization.
type OrgAuth struct {
	Provider AuthProvider
	OrgID    int
}

func (a OrgAuth) Apply(req *http.Request) {
	if a.Provider != nil {
		a.Provider.Apply(req)
	}
	if a.OrgID > 0 {
		req.Header.Set("X-Grafana-Org-Id", strconv.Itoa(a.OrgID))
	}
}

// NoAuth applies no authentication.
type NoAuth struct{}

func (NoAuth) Apply(req *http.Request) {}
