package service

import (
	"testing"
)

func TestNormalizeLanguage(t *testing.T) {
	svc := NewLanguageService()

	tests := []struct {
		in   string
		want string
	}{
		{"en-US", "en"},
		{"pt-BR", "pt"},
		{"zh", "zh"},
		{"", "unknown"},
		{"!!", "unknown"},
	}
	for _, tt := range tests {
		if got := svc.NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectLanguage_ByScript(t *testing.T) {
	svc := NewLanguageService()

	tests := []struct {
		text string
		want string
	}{
		{"Annual Report", "en"},
		{"第一章 绪论", "zh"},
		{"はじめに", "ja"},
		{"서론", "ko"},
		{"مقدمة", "ar"},
		{"परिचय", "hi"},
		{"Введение", "ru"},
		{"12345", "unknown"},
	}
	for _, tt := range tests {
		if got := svc.DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMatch_EnglishSignals(t *testing.T) {
	svc := NewLanguageService()

	m := svc.Match("en", "Chapter 3 Financial Review")
	if !m.Numbering {
		t.Errorf("expected chapter prefix to count as numbering")
	}

	m = svc.Match("en", "Table of Contents")
	if !m.Keyword {
		t.Errorf("expected heading keyword match")
	}

	m = svc.Match("en", "EXECUTIVE SUMMARY")
	if !m.Uppercase {
		t.Errorf("expected uppercase emphasis signal")
	}

	m = svc.Match("en", "quarterly numbers were flat")
	if m.Numbering || m.Keyword || m.Uppercase {
		t.Errorf("expected plain prose to match nothing, got %+v", m)
	}
}

func TestMatch_RegionalTagUsesBaseRules(t *testing.T) {
	svc := NewLanguageService()

	m := svc.Match("es-ES", "Capítulo 1 Introducción")
	if !m.Numbering || !m.Keyword {
		t.Errorf("expected es-ES to resolve to the Spanish rule set, got %+v", m)
	}
	if base := svc.Match("es", "Capítulo 1 Introducción"); base != m {
		t.Errorf("expected regional tag to match like its base code: %+v vs %+v", m, base)
	}

	m = svc.Match("pt-BR", "Seção 2 Resultados")
	if !m.Numbering || !m.Keyword {
		t.Errorf("expected pt-BR to resolve to the Portuguese rule set, got %+v", m)
	}
}

func TestMatch_UnknownLanguageUsesFallback(t *testing.T) {
	svc := NewLanguageService()

	m := svc.Match("xx", "2.1 Referenced Material")
	if !m.Numbering {
		t.Errorf("expected fallback numbering to apply for unknown languages")
	}
	m = svc.Match("xx", "References")
	if !m.Keyword {
		t.Errorf("expected fallback keywords to apply for unknown languages")
	}
}

func TestMatch_ChineseNumbering(t *testing.T) {
	svc := NewLanguageService()

	if m := svc.Match("zh", "第一章 绪论"); !m.Numbering {
		t.Errorf("expected chapter marker to count as numbering")
	}
	if m := svc.Match("zh", "目录"); !m.Keyword {
		t.Errorf("expected table-of-contents keyword match")
	}
}

func TestNumberingDepth(t *testing.T) {
	svc := NewLanguageService()

	tests := []struct {
		text string
		want int
	}{
		{"1 Overview", 1},
		{"2.1 Details", 2},
		{"2.1.3 Fine Detail", 3},
		{"Introduction", 0},
		{"Chapter 1", 0},
	}
	for _, tt := range tests {
		if got := svc.NumberingDepth(tt.text); got != tt.want {
			t.Errorf("NumberingDepth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestScriptOf(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Hello", "latin"},
		{"1. Введение", "cyrillic"},
		{"第一章", "cjk"},
		{"...", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := ScriptOf(tt.text); got != tt.want {
			t.Errorf("ScriptOf(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
