package redis

import "testing"

func TestExtractName(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "valid key", key: ValueKey("history"), want: "history"},
		{name: "prefix only", key: KeyPrefixValue, wantErr: true},
		{name: "foreign key", key: "other:service:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractName(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractName() = %q, want %q", got, tt.want)
			}
		})
	}
}
