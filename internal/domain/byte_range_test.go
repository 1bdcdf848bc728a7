package domain

import (
	"errors"
	"testing"
)

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name         string
		begin, end   int64
		fileLength   int64
		want         ByteRange
		wantLen      int64
		wantRange    string
		wantErr      bool
	}{
		{
			name: "whole file with sentinel", begin: 0, end: -1, fileLength: 10000,
			want: ByteRange{0, 9999, 10000}, wantLen: 10000, wantRange: "bytes 0-9999/10000",
		},
		{
			name: "end equal to file length", begin: 0, end: 10000, fileLength: 10000,
			want: ByteRange{0, 9999, 10000}, wantLen: 10000, wantRange: "bytes 0-9999/10000",
		},
		{
			name: "end past file length is clamped", begin: 0, end: 20000, fileLength: 10000,
			want: ByteRange{0, 9999, 10000}, wantLen: 10000, wantRange: "bytes 0-9999/10000",
		},
		{
			name: "inner range is inclusive", begin: 100, end: 199, fileLength: 10000,
			want: ByteRange{100, 199, 10000}, wantLen: 100, wantRange: "bytes 100-199/10000",
		},
		{
			name: "single byte", begin: 7, end: 7, fileLength: 10,
			want: ByteRange{7, 7, 10}, wantLen: 1, wantRange: "bytes 7-7/10",
		},
		{
			name: "resume with everything received", begin: 10, end: -1, fileLength: 10,
			want: ByteRange{10, 9, 10}, wantLen: 0, wantRange: "bytes */10",
		},
		{
			name: "zero length file", begin: 0, end: -1, fileLength: 0,
			want: ByteRange{0, -1, 0}, wantLen: 0, wantRange: "bytes */0",
		},
		{name: "negative begin", begin: -1, end: -1, fileLength: 10, wantErr: true},
		{name: "begin past file length", begin: 11, end: -1, fileLength: 10, wantErr: true},
		{name: "end before begin", begin: 5, end: 3, fileLength: 10, wantErr: true},
		{name: "end below sentinel", begin: 0, end: -2, fileLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRange(tt.begin, tt.end, tt.fileLength)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("ResolveRange() error = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveRange() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveRange() = %+v, want %+v", got, tt.want)
			}
			if got.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got.Len(), tt.wantLen)
			}
			if got.ContentRange() != tt.wantRange {
				t.Errorf("ContentRange() = %q, want %q", got.ContentRange(), tt.wantRange)
			}
		})
	}
}
