package harness

import (
	"fmt"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// Shared argument-coercion helpers used by the operation catalog. Each
// returns an argHandler that converts the raw value and stores it through
// the given setter.

// documentArg binds a document-valued argument such as filter or update.
func documentArg(dst **docval.Document) argHandler {
	return func(v docval.Value) error {
		d, err := docval.AsDocument(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

// documentListArg binds an array-of-documents argument such as documents.
func documentListArg(dst *[]*docval.Document) argHandler {
	return func(v docval.Value) error {
		arr, err := docval.AsArray(v)
		if err != nil {
			return err
		}
		docs := make([]*docval.Document, len(arr))
		for i, elem := range arr {
			d, err := docval.AsDocument(elem)
			if err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
			docs[i] = d
		}
		*dst = docs
		return nil
	}
}

// boolArg binds a boolean option such as upsert or ordered.
func boolArg(set func(bool)) argHandler {
	return func(v docval.Value) error {
		b, err := docval.AsBool(v)
		if err != nil {
			return err
		}
		set(b)
		return nil
	}
}

// collationArg binds a collation sub-document. The recognized sub-option
// set is fixed; an unknown sub-option is an authoring error.
func collationArg(set func(*client.Collation)) argHandler {
	return func(v docval.Value) error {
		doc, err := docval.AsDocument(v)
		if err != nil {
			return err
		}
		c := &client.Collation{Strength: 3}
		for _, f := range doc.Fields() {
			switch f.Key {
			case "locale":
				locale, err := docval.AsString(f.Value)
				if err != nil {
					return fmt.Errorf("collation locale: %w", err)
				}
				c.Locale = locale
			case "strength":
				strength, err := docval.AsInt64(f.Value)
				if err != nil {
					return fmt.Errorf("collation strength: %w", err)
				}
				c.Strength = int(strength)
			case "caseLevel":
				caseLevel, err := docval.AsBool(f.Value)
				if err != nil {
					return fmt.Errorf("collation caseLevel: %w", err)
				}
				c.CaseLevel = caseLevel
			default:
				return fmt.Errorf("unrecognized collation option %q", f.Key)
			}
		}
		if c.Locale == "" {
			return fmt.Errorf("collation requires a locale")
		}
		set(c)
		return nil
	}
}
