package sqlutil

import "testing"

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"orders", "ORDERS"},
		{"Orders", "ORDERS"},
		{"[ORDERS]", "ORDERS"},
		{"`orders`", "ORDERS"},
		{`"orders"`, "ORDERS"},
		{"'orders'", "ORDERS"},
		{" order_items ", "ORDER_ITEMS"},
		{"[dbo].[orders]", "DBO.ORDERS"}, // schema qualification is kept verbatim
		{"", ""},
		{"``", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeIdentifier(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdentifier_Idempotent(t *testing.T) {
	inputs := []string{"orders", "[Order Lines]", "`customer_addr`", "Straße"}
	for _, input := range inputs {
		once := NormalizeIdentifier(input)
		twice := NormalizeIdentifier(once)
		if once != twice {
			t.Errorf("NormalizeIdentifier not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeIdentifier_DecorationInsensitive(t *testing.T) {
	want := NormalizeIdentifier("Orders")
	for _, input := range []string{"[ORDERS]", "`orders`", `"oRdErS"`} {
		if got := NormalizeIdentifier(input); got != want {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStripDecoration(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[users]", "users"},
		{"`users`", "users"},
		{`"users"`, "users"},
		{"us[e]rs", "users"},
		{"users", "users"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripDecoration(tt.input); got != tt.expected {
				t.Errorf("StripDecoration(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
