package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFeed_Fetch(t *testing.T) {
	t.Parallel()

	type tc struct {
		name    string
		handler http.HandlerFunc
		want    int
		wantErr bool
	}

	tests := []tc{
		{
			name: "ok",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":"b1","status":"WON","stake":100,"odds":"2.0"}]`))
			},
			want: 1,
		},
		{
			name: "empty_feed",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
			want: 0,
		},
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
		},
		{
			name: "not_found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr: true,
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewHTTP(srv.URL, time.Second)

			records, err := f.Fetch(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %d records", len(records))
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != tt.want {
				t.Fatalf("records: want %d, got %d", tt.want, len(records))
			}
		})
	}
}

func TestHTTPFeed_FetchUnreachable(t *testing.T) {
	t.Parallel()

	f := NewHTTP("http://127.0.0.1:1/parlay_history.json", 200*time.Millisecond)

	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
}
