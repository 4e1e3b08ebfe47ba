// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render builds the SEO-templated HTML document for a post.
// Pure and deterministic: fixed inputs produce a byte-identical document,
// so a failed run can be replayed without side effects.
package render

import (
	"fmt"
	"strings"

	"autopress/internal/slug"
)

// Meta is the derived metadata record for a rendered document.
type Meta struct {
	Title       string
	Description string
	Keywords    []string
	Slug        string
	Author      string
	Lang        string
}

// Result pairs the full HTML document with its metadata.
type Result struct {
	HTML string
	Meta Meta
}

// defaultKeywords seed every document's keyword list.
var defaultKeywords = []string{"SEO", "블로그자동화", "워드프레스", "티스토리", "콘텐츠마케팅"}

// maxOutlineSections caps H2 sections per document.
const maxOutlineSections = 6

// Render builds the fixed-section HTML document: style block, H1,
// intent paragraph, up to six outline H2 sections, comparison table,
// checklist, numbered image placeholders, three FAQ blocks, and three
// CTA slots (top/mid/bottom). images below 1 is clamped to 1.
func Render(topic, intent string, outline []string, images int) Result {
	var b strings.Builder
	b.WriteString(baseStyle)
	b.WriteByte('\n')

	// Headline and intent paragraph.
	fmt.Fprintf(&b, "<h1>%s</h1>\n", topic)
	fmt.Fprintf(&b, "<p><strong>검색 의도:</strong> %s. 본 문서는 자동화된 AI 파이프라인으로 생성되었으며, 정보 제공 목적입니다.</p>\n", intent)

	// Outline sections.
	sections := outline
	if len(sections) > maxOutlineSections {
		sections = sections[:maxOutlineSections]
	}
	for _, h2 := range sections {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", h2)
		b.WriteString("<p>80–140자 단락 예시. 과장 없이 핵심만 설명합니다. 실제 콘텐츠는 여기에 삽입됩니다.</p>\n")
	}

	b.WriteString("<h2>핵심 비교 표</h2>\n")
	b.WriteString(comparisonTable)
	b.WriteByte('\n')

	b.WriteString("<h2>작성 체크리스트</h2>\n")
	b.WriteString(checklist)
	b.WriteByte('\n')

	// Image placeholders, 1-based markers.
	b.WriteString("<h2>이미지 삽입 위치</h2>\n")
	if images < 1 {
		images = 1
	}
	for i := 1; i <= images; i++ {
		fmt.Fprintf(&b, "<p>[IMG%d] — 캡션, 출처, alt 텍스트 기입 필수</p>\n", i)
	}

	b.WriteString("<h2>자주 묻는 질문 (FAQ)</h2>\n")
	for _, faq := range faqBlocks {
		b.WriteString(faq)
		b.WriteByte('\n')
	}

	for _, cta := range ctaBlocks {
		b.WriteString(cta)
		b.WriteByte('\n')
	}

	return Result{
		HTML: strings.TrimRight(b.String(), "\n"),
		Meta: Meta{
			Title:       topic + " - 완전 가이드",
			Description: topic + "에 대한 상세 가이드. SEO 최적화된 콘텐츠로 핵심 정보를 빠르게 확인하세요.",
			Keywords:    append([]string(nil), defaultKeywords...),
			Slug:        slug.Generate(topic),
			Author:      "Blog Auto Generator",
			Lang:        "ko",
		},
	}
}

// SpliceDraft inserts draft HTML right after the document's H1 so the
// model-written body leads the templated sections. When the H1 is not
// found (topic edited after render) the draft is appended instead.
func SpliceDraft(doc, topic, draftHTML string) string {
	h1 := fmt.Sprintf("<h1>%s</h1>", topic)
	if strings.Contains(doc, h1) {
		return strings.Replace(doc, h1, h1+"\n"+draftHTML, 1)
	}
	return doc + "\n" + draftHTML
}

const comparisonTable = `<table>
  <thead>
    <tr>
      <th>항목</th>
      <th>내용</th>
      <th>메모</th>
    </tr>
  </thead>
  <tbody>
    <tr>
      <td>검색 의도</td>
      <td>정보 / 상업 / 거래</td>
      <td>키워드 성격 분류</td>
    </tr>
    <tr>
      <td>벤치마킹</td>
      <td>상위 문서 요약</td>
      <td>중복 제거 및 개선 포인트</td>
    </tr>
    <tr>
      <td>본문 규격</td>
      <td>H1=1, H2=3–6, 표1, 리스트1, FAQ3</td>
      <td>SEO 최적화 기준</td>
    </tr>
  </tbody>
</table>`

const checklist = `<ul>
  <li>연관질의 (related queries) 커버</li>
  <li>상위 문서와의 격차 보완</li>
  <li>이미지 3–5장 (alt, 캡션, 출처 포함)</li>
  <li>CTA (Call-To-Action) 2–3개 배치</li>
  <li>메타 타이틀/설명/키워드 작성</li>
  <li>모바일 반응형 테스트</li>
</ul>`

var faqBlocks = []string{
	`<details>
  <summary>1) 핵심 개념은 무엇인가요?</summary>
  <p>간단하고 명확한 설명을 작성합니다. 전문 용어는 최소화합니다.</p>
</details>`,
	`<details>
  <summary>2) 어떻게 적용하나요?</summary>
  <p>단계별 절차를 순서대로 제시합니다. 실제 예시를 포함하면 좋습니다.</p>
</details>`,
	`<details>
  <summary>3) 흔한 오류는?</summary>
  <p>자주 발생하는 문제의 원인과 해결 방법을 명시합니다.</p>
</details>`,
}

var ctaBlocks = []string{
	`<div class="cta" id="CTA_TOP"><strong>🎁 [CTA_TOP]</strong> 제휴 링크 또는 리소스 (rel="nofollow sponsored")</div>`,
	`<div class="cta" id="CTA_MID"><strong>📥 [CTA_MID]</strong> 체크리스트 또는 템플릿 다운로드</div>`,
	`<div class="cta" id="CTA_BOTTOM"><strong>💬 [CTA_BOTTOM]</strong> 상담 / 데모 신청</div>`,
}

const baseStyle = `<style>
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Noto Sans KR', sans-serif;
    line-height: 1.75;
    color: #1f2937;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
    background-color: #ffffff;
  }

  h1 {
    font-size: 2.25em;
    margin: 0.5em 0;
    color: #111827;
    font-weight: 700;
  }

  h2 {
    font-size: 1.75em;
    margin: 1.2em 0 0.6em;
    color: #1f2937;
    border-bottom: 2px solid #e5e7eb;
    padding-bottom: 0.3em;
    font-weight: 600;
  }

  h3 {
    font-size: 1.25em;
    margin: 1em 0 0.5em;
    color: #374151;
    font-weight: 600;
  }

  p {
    margin: 1em 0;
    line-height: 1.8;
  }

  table {
    width: 100%;
    border-collapse: collapse;
    margin: 1.5em 0;
    border: 1px solid #d1d5db;
    box-shadow: 0 1px 3px rgba(0,0,0,0.1);
  }

  th, td {
    border: 1px solid #e5e7eb;
    padding: 12px 16px;
    text-align: left;
  }

  th {
    background-color: #f3f4f6;
    font-weight: 600;
    color: #374151;
  }

  tbody tr:hover {
    background-color: #f9fafb;
  }

  ul, ol {
    margin: 1em 0;
    padding-left: 2em;
  }

  li {
    margin: 0.6em 0;
    line-height: 1.7;
  }

  .cta {
    border: 2px dashed #9ca3af;
    padding: 20px;
    margin: 24px 0;
    background-color: #f9fafb;
    border-radius: 8px;
    text-align: center;
  }

  .cta strong {
    color: #dc2626;
    font-size: 1.1em;
  }

  .image-placeholder {
    background-color: #f3f4f6;
    border: 2px dashed #d1d5db;
    padding: 40px 20px;
    margin: 20px 0;
    text-align: center;
    color: #6b7280;
    border-radius: 4px;
  }

  .caption {
    font-size: 0.9em;
    color: #6b7280;
    margin-top: 0.5em;
    font-style: italic;
  }

  details {
    margin: 1em 0;
    padding: 16px;
    background-color: #f3f4f6;
    border-radius: 8px;
    border-left: 4px solid #3b82f6;
  }

  summary {
    font-weight: 600;
    cursor: pointer;
    color: #1f2937;
    padding: 4px 0;
  }

  summary:hover {
    color: #3b82f6;
  }

  details[open] {
    background-color: #eff6ff;
  }

  details p {
    margin-top: 12px;
    padding-left: 8px;
  }

  @media (max-width: 768px) {
    body {
      padding: 12px;
    }

    h1 {
      font-size: 1.75em;
    }

    h2 {
      font-size: 1.5em;
    }

    table {
      font-size: 0.9em;
    }

    th, td {
      padding: 8px 10px;
    }
  }
</style>`
