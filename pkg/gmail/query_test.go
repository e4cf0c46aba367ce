package gmail

import "testing"

func TestQueryString(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			"collect query",
			Query{From: "tickets@rail.example", WithoutLabel: "receipts-filed", HasAttachment: true},
			"from:tickets@rail.example -label:receipts-filed has:attachment",
		},
		{
			"backfill query",
			Query{From: "tickets@rail.example", NewerThanDays: 40, HasAttachment: true},
			"from:tickets@rail.example newer_than:40d has:attachment",
		},
		{
			"reset query",
			Query{WithLabel: "receipts-filed"},
			"label:receipts-filed",
		},
		{
			"label names with spaces become hyphens",
			Query{WithoutLabel: "Receipts Filed"},
			"-label:Receipts-Filed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
