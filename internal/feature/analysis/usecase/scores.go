package usecase

import (
	"regexp"
	"strconv"
)

// Scores holds the three sub-scores scraped from a provider report.
type Scores struct {
	SEO int
	AEO int
	GEO int
}

// レポート末尾の [SCORES] ブロック内の行にマッチします。
// 名前は大文字固定、前後の空白は任意です。
var (
	seoPattern = regexp.MustCompile(`SEO:\s*(\d+)`)
	aeoPattern = regexp.MustCompile(`AEO:\s*(\d+)`)
	geoPattern = regexp.MustCompile(`GEO:\s*(\d+)`)
)

// ExtractScores はプロバイダの応答テキストから3つのスコアを抽出します。
// 各名前について最初にマッチした整数を採用し、マッチしない場合は0を返します
// （エラーにはなりません）。抽出値が0〜100に収まるかの検証は行いません。
func ExtractScores(text string) Scores {
	return Scores{
		SEO: firstInt(seoPattern, text),
		AEO: firstInt(aeoPattern, text),
		GEO: firstInt(geoPattern, text),
	}
}

// firstInt はパターンの最初のキャプチャを整数として返します。マッチしなければ0です。
func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// \d+ にマッチした桁列がintに収まらないケースのみ
		return 0
	}
	return n
}
