package repository

import "testing"

func TestJSONTextExprByDialect(t *testing.T) {
	sqliteExpr := jsonTextExprByDialect("sqlite", "marketplace_urls", "amazon")
	if sqliteExpr != `json_extract(marketplace_urls, '$."amazon"')` {
		t.Fatalf("unexpected sqlite expr: %s", sqliteExpr)
	}

	pgExpr := jsonTextExprByDialect("postgres", "marketplace_urls", "amazon")
	if pgExpr != "(marketplace_urls::jsonb ->> 'amazon')" {
		t.Fatalf("unexpected postgres expr: %s", pgExpr)
	}
}

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"name", "description", ""})
	if argCount != 2 {
		t.Fatalf("expected 2 args, got %d", argCount)
	}
	if condition != "name LIKE ? OR description LIKE ?" {
		t.Fatalf("unexpected condition: %s", condition)
	}

	condition, argCount = buildLikeConditionByDialect("postgres", []string{"name"})
	if argCount != 1 {
		t.Fatalf("expected 1 arg, got %d", argCount)
	}
	if condition != "name ILIKE ?" {
		t.Fatalf("unexpected condition: %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%kw%", 3)
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	for _, arg := range args {
		if arg != "%kw%" {
			t.Fatalf("unexpected arg: %v", arg)
		}
	}
}
