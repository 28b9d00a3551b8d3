package daemon

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"railcheck/internal/api"
	"railcheck/internal/config"
	"railcheck/internal/overlay"
	"railcheck/internal/plans"
	"railcheck/internal/testsupport"
)

const testMaps = `<html><body>
<map id="map-R1-haut">
  <area shape="rect" coords="100,100,300,400" alt="Rangée gauche">
  <area shape="circle" coords="800,250,50" alt="WC">
</map>
<map id="train-map">
  <area shape="rect" coords="0,0,20,50" alt="M1">
  <area shape="rect" coords="20,0,40,50" title="R1">
</map>
</body></html>`

func newTestDaemon(t *testing.T, mutate func(*config.Config)) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithPlans(testMaps, map[string][2]int{
		"plans/R1_haut.jpg": {1000, 500},
		"train.jpg":         {200, 50},
	}))
	if mutate != nil {
		mutate(cfg)
	}
	st := testsupport.MustOpenStore(t, cfg)
	lib, err := plans.Open(cfg.Paths.PlansDir, overlay.NewBuilder(overlay.WithHighlightClass(cfg.Overlay.HighlightClass)), nil)
	if err != nil {
		t.Fatalf("plans.Open: %v", err)
	}
	d, err := New(cfg, st, lib, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Daemon, *httptest.Server) {
	t.Helper()
	d := newTestDaemon(t, mutate)
	srv := httptest.NewServer(d.api.handler())
	t.Cleanup(srv.Close)
	return d, srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d (%s)", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAPIRecordLifecycle(t *testing.T) {
	_, srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/profile", api.Profile{Inspector: "Camille", Trainset: "4701"})
	expectStatus(t, resp, http.StatusOK)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/records", api.NewRecordRequest{
		Carriage: "R1", Level: "haut", Zone: "Rangée gauche", Comment: "Accoudoir cassé",
	})
	expectStatus(t, resp, http.StatusCreated)
	var created api.RecordResponse
	decodeBody(t, resp, &created)
	rec := created.Record
	if rec.ID == "" || rec.Inspector != "Camille" || rec.Trainset != "4701" {
		t.Fatalf("created record = %+v", rec)
	}

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/records/"+rec.ID, api.CommentRequest{Comment: "Accoudoir manquant"})
	expectStatus(t, resp, http.StatusOK)
	var updated api.RecordResponse
	decodeBody(t, resp, &updated)
	if updated.Record.Comment != "Accoudoir manquant" {
		t.Fatalf("comment = %q", updated.Record.Comment)
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/records/"+rec.ID+"/attachments?name=accoudoir.png", bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "image/png")
	attResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer attResp.Body.Close()
	expectStatus(t, attResp, http.StatusCreated)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/records/"+rec.ID+"/attachments", nil)
	expectStatus(t, resp, http.StatusOK)
	var atts api.AttachmentListResponse
	decodeBody(t, resp, &atts)
	if len(atts.Items) != 1 || atts.Items[0].Name != "accoudoir.png" || atts.Items[0].ContentType != "image/png" {
		t.Fatalf("attachments = %+v", atts.Items)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/records", nil)
	expectStatus(t, resp, http.StatusOK)
	var list api.RecordListResponse
	decodeBody(t, resp, &list)
	if len(list.Items) != 1 || len(list.Items[0].Photos) != 1 {
		t.Fatalf("records = %+v", list.Items)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/export", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("export content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Inspection_TGV") {
		t.Fatalf("export disposition = %q", cd)
	}
	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	var sheets, photos int
	for _, f := range zr.File {
		switch {
		case strings.HasSuffix(f.Name, ".xlsx"):
			sheets++
		case strings.HasPrefix(f.Name, "photos/") && !strings.HasSuffix(f.Name, "/"):
			photos++
		}
	}
	if sheets != 1 || photos != 1 {
		t.Fatalf("archive has %d sheets and %d photos", sheets, photos)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/records/"+rec.ID, nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/records/"+rec.ID, nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestAPIClearRecords(t *testing.T) {
	_, srv := newTestServer(t, nil)
	for _, zone := range []string{"WC", "Espace bagages"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", api.NewRecordRequest{
			Inspector: "Camille", Trainset: "4701", Carriage: "R2", Level: "bas", Zone: zone,
		})
		expectStatus(t, resp, http.StatusCreated)
	}

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/records", nil)
	expectStatus(t, resp, http.StatusOK)
	var cleared api.ClearResponse
	decodeBody(t, resp, &cleared)
	if cleared.Records != 2 {
		t.Fatalf("cleared = %+v", cleared)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/status", nil)
	expectStatus(t, resp, http.StatusOK)
	var status api.DaemonStatus
	decodeBody(t, resp, &status)
	if status.Records != 0 || status.PID == 0 {
		t.Fatalf("status = %+v", status)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	_, srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Attachments.MaxBytes = 16
	})
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", api.NewRecordRequest{
		Inspector: "Camille", Trainset: "4701", Carriage: "R1", Level: "haut", Zone: "WC",
	})
	expectStatus(t, resp, http.StatusCreated)
	var created api.RecordResponse
	decodeBody(t, resp, &created)
	attachURL := srv.URL + "/api/records/" + created.Record.ID + "/attachments?name=note"

	tests := []struct {
		name        string
		method      string
		url         string
		body        string
		contentType string
		want        int
	}{
		{name: "unknown carriage", method: http.MethodPost, url: srv.URL + "/api/records", body: `{"carriage":"R9","level":"haut"}`, want: http.StatusBadRequest},
		{name: "power car without zone", method: http.MethodPost, url: srv.URL + "/api/records", body: `{"carriage":"M1"}`, want: http.StatusBadRequest},
		{name: "level not on bar car", method: http.MethodPost, url: srv.URL + "/api/records", body: `{"carriage":"R4","level":"bas"}`, want: http.StatusBadRequest},
		{name: "malformed body", method: http.MethodPost, url: srv.URL + "/api/records", body: `{`, want: http.StatusBadRequest},
		{name: "missing record", method: http.MethodGet, url: srv.URL + "/api/records/missing", want: http.StatusNotFound},
		{name: "missing record attachments", method: http.MethodGet, url: srv.URL + "/api/records/missing/attachments", want: http.StatusNotFound},
		{name: "unknown plan", method: http.MethodGet, url: srv.URL + "/api/plans/R9_haut/overlay.svg", want: http.StatusNotFound},
		{name: "bad display size", method: http.MethodGet, url: srv.URL + "/api/plans/R1_haut/overlay.svg?width=wide", want: http.StatusBadRequest},
		{name: "attachment type", method: http.MethodPost, url: attachURL, body: "plain text", contentType: "text/plain", want: http.StatusBadRequest},
		{name: "attachment too large", method: http.MethodPost, url: attachURL, body: strings.Repeat("x", 64), contentType: "image/png", want: http.StatusRequestEntityTooLarge},
		{name: "method not allowed", method: http.MethodPut, url: srv.URL + "/api/status", want: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			defer resp.Body.Close()
			expectStatus(t, resp, tt.want)
		})
	}
}

func TestAPIExportWithoutRecords(t *testing.T) {
	_, srv := newTestServer(t, nil)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/export", nil)
	expectStatus(t, resp, http.StatusConflict)
}

func TestAPIOverlaySVG(t *testing.T) {
	_, srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/plans/R1_haut/overlay.svg?width=500&height=250", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	svg := string(body)
	for _, want := range []string{`viewBox="0.00 0.00 500.00 250.00"`, `x="50.00"`, `height="150.00"`, `r="25.00"`, `class="hl"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("overlay missing %q\n%s", want, svg)
		}
	}

	// Without a size the plan is drawn at its natural dimensions.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/plans/R1_haut/overlay.svg", nil)
	expectStatus(t, resp, http.StatusOK)
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `viewBox="0.00 0.00 1000.00 500.00"`) {
		t.Fatalf("natural overlay = %s", body)
	}
}

func TestAPIHit(t *testing.T) {
	_, srv := newTestServer(t, nil)

	tests := []struct {
		name    string
		url     string
		hit     bool
		zone    string
		matched string
	}{
		{name: "saloon zone", url: "/api/plans/R1_haut/hit?x=100&y=100&width=500&height=250", hit: true, zone: "Rangée gauche", matched: "Rangée gauche"},
		{name: "saloon miss", url: "/api/plans/R1_haut/hit?x=10&y=10&width=500&height=250", hit: false},
		{name: "train carriage", url: "/api/plans/train/hit?x=30&y=10", hit: true, zone: "R1", matched: "R1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, srv.URL+tt.url, nil)
			expectStatus(t, resp, http.StatusOK)
			var got api.HitResponse
			decodeBody(t, resp, &got)
			if got.Hit != tt.hit || got.Zone != tt.zone || got.Matched != tt.matched {
				t.Fatalf("hit = %+v", got)
			}
		})
	}
}

func TestAPICatalogAndPlans(t *testing.T) {
	_, srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/catalog", nil)
	expectStatus(t, resp, http.StatusOK)
	var cat api.Catalog
	decodeBody(t, resp, &cat)
	if len(cat.Carriages) != 10 || cat.Train.ID != "train" {
		t.Fatalf("catalog = %+v", cat)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/plans", nil)
	expectStatus(t, resp, http.StatusOK)
	var list api.PlanListResponse
	decodeBody(t, resp, &list)
	var found bool
	for _, p := range list.Items {
		if p.ID == "R1_haut" {
			found = p.NaturalWidth == 1000 && p.Regions == 2
		}
	}
	if !found {
		t.Fatalf("R1_haut missing or incomplete in %+v", list.Items)
	}
}

func TestAPICorrelationID(t *testing.T) {
	_, srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/catalog", nil)
	if resp.Header.Get("X-Correlation-ID") == "" {
		t.Fatal("expected a generated correlation id")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/catalog", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get("X-Correlation-ID"); got != "abc-123" {
		t.Fatalf("correlation id = %q", got)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	_, srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Paths.APIToken = "s3cret"
	})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/records", nil)
	expectStatus(t, resp, http.StatusUnauthorized)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/records", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	authed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer authed.Body.Close()
	expectStatus(t, authed, http.StatusOK)
}
