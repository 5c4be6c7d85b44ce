package mutate

import (
	"regexp"
	"strings"
)

// fontSizeTokens is the utility-class scale for font sizes. "text-" is
// shared between sizes and colors, so the size scale doubles as the
// exclusion list for the color predicate.
var fontSizeTokens = map[string]struct{}{
	"text-xs": {}, "text-sm": {}, "text-base": {}, "text-lg": {},
	"text-xl": {}, "text-2xl": {}, "text-3xl": {}, "text-4xl": {},
	"text-5xl": {}, "text-6xl": {}, "text-7xl": {}, "text-8xl": {}, "text-9xl": {},
}

// fontFamilyTokens are the stock font family utilities.
var fontFamilyTokens = map[string]struct{}{
	"font-sans": {}, "font-serif": {}, "font-mono": {},
}

// borderNonColor matches border utilities that control width, side, or
// style rather than color.
var borderNonColor = regexp.MustCompile(`^border(-[xytrbl])?(-\d+)?$`)

var borderStyleTokens = map[string]struct{}{
	"border-solid": {}, "border-dashed": {}, "border-dotted": {},
	"border-double": {}, "border-hidden": {}, "border-none": {},
	"border-collapse": {}, "border-separate": {},
}

// FontSizePredicate identifies the primary font-size token: the exact old
// token or any token on the size scale.
func FontSizePredicate(oldSize string) TokenPredicate {
	return func(tok string) bool {
		if oldSize != "" && tok == oldSize {
			return true
		}
		_, ok := fontSizeTokens[tok]
		return ok
	}
}

// TextColorPredicate identifies text color tokens: "text-" prefixed, not a
// size, and never text-transparent.
func TextColorPredicate(oldToken string) TokenPredicate {
	return func(tok string) bool {
		if oldToken != "" && tok == oldToken {
			return true
		}
		if !strings.HasPrefix(tok, "text-") || tok == "text-transparent" {
			return false
		}
		_, isSize := fontSizeTokens[tok]
		return !isSize
	}
}

// BackgroundColorPredicate identifies background color tokens.
func BackgroundColorPredicate(oldToken string) TokenPredicate {
	return func(tok string) bool {
		if oldToken != "" && tok == oldToken {
			return true
		}
		return strings.HasPrefix(tok, "bg-")
	}
}

// BorderColorPredicate identifies border color tokens, excluding width,
// side, and style utilities.
func BorderColorPredicate(oldToken string) TokenPredicate {
	return func(tok string) bool {
		if oldToken != "" && tok == oldToken {
			return true
		}
		if !strings.HasPrefix(tok, "border-") {
			return false
		}
		if borderNonColor.MatchString(tok) {
			return false
		}
		_, isStyle := borderStyleTokens[tok]
		return !isStyle
	}
}

// FontFamilyPredicate identifies font family tokens: the stock families,
// arbitrary-value font tokens, or the exact old token.
func FontFamilyPredicate(oldFont string) TokenPredicate {
	return func(tok string) bool {
		if oldFont != "" && tok == oldFont {
			return true
		}
		if _, ok := fontFamilyTokens[tok]; ok {
			return true
		}
		return strings.HasPrefix(tok, "font-[")
	}
}
