package tool

import (
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	t.Run("empty string yields empty bag", func(t *testing.T) {
		args, err := parseArgs("")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(args) != 0 {
			t.Fatalf("expected empty bag, got %v", args)
		}
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		if _, err := parseArgs("{not json"); err == nil {
			t.Fatal("expected a parse error")
		}
	})

	t.Run("null literal yields empty bag", func(t *testing.T) {
		args, err := parseArgs("null")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(args) != 0 {
			t.Fatalf("expected empty bag, got %v", args)
		}
	})
}

func TestArgsText(t *testing.T) {
	args, err := parseArgs(`{"s":"hello","n":42,"f":1.5,"b":true,"o":{"x":1},"nil":null}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cases := []struct {
		name  string
		field string
		want  string
		ok    bool
	}{
		{"string passthrough", "s", "hello", true},
		{"integer formatted without decimals", "n", "42", true},
		{"float keeps fraction", "f", "1.5", true},
		{"bool formatted", "b", "true", true},
		{"object is not a scalar", "o", "", false},
		{"null is missing", "nil", "", false},
		{"absent field", "missing", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := args.text(tc.field)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("text(%q) = (%q, %v), want (%q, %v)", tc.field, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestArgsIntegerField(t *testing.T) {
	args, err := parseArgs(`{"whole":7,"text":"12","frac":1.5,"junk":"abc","obj":{}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if v, ok, err := args.integerField("whole"); err != nil || !ok || v != 7 {
		t.Fatalf("whole = (%d, %v, %v)", v, ok, err)
	}
	if v, ok, err := args.integerField("text"); err != nil || !ok || v != 12 {
		t.Fatalf("text = (%d, %v, %v)", v, ok, err)
	}
	if _, ok, err := args.integerField("missing"); ok || err != nil {
		t.Fatalf("missing field should report absent, got ok=%v err=%v", ok, err)
	}
	for _, field := range []string{"frac", "junk", "obj"} {
		if _, _, err := args.integerField(field); err == nil {
			t.Fatalf("expected error for field %q", field)
		}
	}
}

func TestArgsStringList(t *testing.T) {
	args, err := parseArgs(`{"keys":["a",2,null,true],"scalar":"x"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	keys, ok := args.stringList("keys")
	if !ok {
		t.Fatal("expected keys to be a list")
	}
	if !reflect.DeepEqual(keys, []string{"a", "2", "true"}) {
		t.Fatalf("unexpected list: %v", keys)
	}
	if _, ok := args.stringList("scalar"); ok {
		t.Fatal("scalar field must not be treated as a list")
	}
}

func TestArgsBoolField(t *testing.T) {
	args, err := parseArgs(`{"t":true,"s":"true","f":"no","n":1}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !args.boolField("t") || !args.boolField("s") {
		t.Fatal("expected true for boolean and parsable string")
	}
	if args.boolField("f") || args.boolField("n") || args.boolField("missing") {
		t.Fatal("expected false for unparsable, numeric and missing fields")
	}
}
