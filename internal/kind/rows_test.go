package kind

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://kind.krx.co.kr"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseDetailLink(t *testing.T) {
	tests := []struct {
		name    string
		onclick string
		href    string
		want    *DetailLink
	}{
		{
			name:    "onclick handler",
			onclick: "openDisclsViewer('12345','67890','host1','port'); return false;",
			want: &DetailLink{
				AccessionNo: "12345",
				DocumentNo:  "67890",
				ViewerHost:  "host1",
				URL:         testBaseURL + "/common/disclsviewer.do?method=search&acptno=12345&docno=67890&viewerhost=host1&viewerport=",
			},
		},
		{
			name: "href fallback",
			href: "/common/disclsviewer.do?method=search&acptno=20240101000123&docno=20240101000123&viewerhost=kind.krx.co.kr&viewerport=",
			want: &DetailLink{
				AccessionNo: "20240101000123",
				DocumentNo:  "20240101000123",
				ViewerHost:  "kind.krx.co.kr",
				URL:         testBaseURL + "/common/disclsviewer.do?method=search&acptno=20240101000123&docno=20240101000123&viewerhost=kind.krx.co.kr&viewerport=",
			},
		},
		{
			name:    "onclick preferred over href",
			onclick: "openDisclsViewer('A','B','C')",
			href:    "/common/disclsviewer.do?method=search&acptno=X&docno=Y&viewerhost=Z",
			want: &DetailLink{
				AccessionNo: "A",
				DocumentNo:  "B",
				ViewerHost:  "C",
				URL:         testBaseURL + "/common/disclsviewer.do?method=search&acptno=A&docno=B&viewerhost=C&viewerport=",
			},
		},
		{
			name:    "unrelated handler",
			onclick: "doSomething('x')",
			href:    "#",
			want:    nil,
		},
		{
			name: "empty attributes",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDetailLink(tt.onclick, tt.href, testBaseURL))
		})
	}
}

const resultPageHTML = `
<div class="list_content">
<table class="list">
<tbody>
<tr><td>번호</td><td>시간</td><td>회사명</td><td>공시제목</td><td>제출인</td></tr>
<tr>
  <td>2</td><td>2024.03.15 08:00:00</td><td>에이코프</td>
  <td><a href="#" onclick="openDisclsViewer('12345','67890','host1','p')">투자경고종목 지정</a></td>
  <td>유가증권시장본부</td>
</tr>
<tr>
  <td>1</td><td>2024.03.14 17:30:00</td><td>비테크</td>
  <td><a href="/common/disclsviewer.do?method=search&acptno=111&docno=222&viewerhost=h">투자경고종목 지정 해제</a></td>
  <td>코스닥시장본부</td>
</tr>
</tbody>
</table>
</div>`

func TestExtractRecords(t *testing.T) {
	records, err := ExtractRecords(resultPageHTML, testBaseURL, testLogger())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "2", first.RowNum)
	assert.Equal(t, "2024.03.15 08:00:00", first.Datetime)
	assert.Equal(t, "에이코프", first.CompanyName)
	assert.Equal(t, "투자경고종목 지정", first.Title)
	assert.Equal(t, "유가증권시장본부", first.Submitter)
	assert.Equal(t, Designation, first.DesignationType)
	require.NotNil(t, first.Link)
	assert.Equal(t, "12345", first.Link.AccessionNo)
	assert.Equal(t,
		testBaseURL+"/common/disclsviewer.do?method=search&acptno=12345&docno=67890&viewerhost=host1&viewerport=",
		first.Link.URL)

	second := records[1]
	assert.Equal(t, Cancellation, second.DesignationType)
	require.NotNil(t, second.Link)
	assert.Equal(t, "111", second.Link.AccessionNo)
}

func TestExtractRecords_HeaderRowExcluded(t *testing.T) {
	records, err := ExtractRecords(resultPageHTML, testBaseURL, testLogger())
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, "번호", r.RowNum)
		assert.NotEqual(t, "공시제목", r.Title)
	}
}

func TestExtractRecords_ColumnVariants(t *testing.T) {
	tests := []struct {
		name          string
		html          string
		wantCount     int
		wantRowNum    string
		wantCompany   string
		wantSubmitter string
	}{
		{
			name: "four columns synthesizes row number",
			html: `<table><tbody><tr>
				<td>2024.03.15 08:00:00</td><td>에이코프</td>
				<td><a href="#">투자경고종목 지정</a></td><td>거래소</td>
			</tr></tbody></table>`,
			wantCount:     1,
			wantRowNum:    "1",
			wantCompany:   "에이코프",
			wantSubmitter: "거래소",
		},
		{
			name: "three columns omits submitter",
			html: `<table><tbody><tr>
				<td>2024.03.15 08:00:00</td><td>에이코프</td>
				<td><a href="#">투자경고종목 지정</a></td>
			</tr></tbody></table>`,
			wantCount:     1,
			wantRowNum:    "1",
			wantCompany:   "에이코프",
			wantSubmitter: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ExtractRecords(tt.html, testBaseURL, testLogger())
			require.NoError(t, err)
			require.Len(t, records, tt.wantCount)
			assert.Equal(t, tt.wantRowNum, records[0].RowNum)
			assert.Equal(t, tt.wantCompany, records[0].CompanyName)
			assert.Equal(t, tt.wantSubmitter, records[0].Submitter)
		})
	}
}

func TestExtractRecords_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "too few cells",
			html: `<table><tbody><tr><td>1</td><td>에이코프</td></tr></tbody></table>`,
		},
		{
			name: "empty title",
			html: `<table><tbody><tr>
				<td>1</td><td>2024.03.15 08:00:00</td><td>에이코프</td><td></td><td>거래소</td>
			</tr></tbody></table>`,
		},
		{
			name: "empty company",
			html: `<table><tbody><tr>
				<td>1</td><td>2024.03.15 08:00:00</td><td></td><td>투자경고종목 지정</td><td>거래소</td>
			</tr></tbody></table>`,
		},
		{
			name: "header label in title cell",
			html: `<table><tbody><tr>
				<td>1</td><td>2024.03.15 08:00:00</td><td>에이코프</td><td>공시제목</td><td>거래소</td>
			</tr></tbody></table>`,
		},
		{
			name: "time field too short",
			html: `<table><tbody><tr>
				<td>08:00</td><td>에이코프</td><td>투자경고종목 지정</td>
			</tr></tbody></table>`,
		},
	}

	// A page whose every row is rejected yields no data; without a
	// "no results" marker that reads as the table format changing under us.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ExtractRecords(tt.html, testBaseURL, testLogger())
			assert.ErrorIs(t, err, ErrStructureChanged)
			assert.Empty(t, records)
		})
	}
}

func TestExtractRecords_MalformedRowsAmongDataRows(t *testing.T) {
	html := `<table><tbody>
	<tr><td>2</td><td>2024.03.15 08:00:00</td><td>에이코프</td><td>투자경고종목 지정</td><td>거래소</td></tr>
	<tr><td>1</td><td>2024.03.14 17:30:00</td><td></td><td>투자경고종목 해제</td><td>거래소</td></tr>
	</tbody></table>`

	records, err := ExtractRecords(html, testBaseURL, testLogger())
	require.NoError(t, err)
	require.Len(t, records, 1, "valid rows survive rejected neighbors")
	assert.Equal(t, "에이코프", records[0].CompanyName)
}

func TestExtractRecords_NoResults(t *testing.T) {
	t.Run("marker means normal empty page", func(t *testing.T) {
		html := `<div class="list_content"><p>검색결과가 없습니다.</p></div>`
		records, err := ExtractRecords(html, testBaseURL, testLogger())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("marker with rowless table still empty", func(t *testing.T) {
		html := `<table><tbody><tr><td>검색결과가 없습니다.</td></tr></tbody></table>`
		records, err := ExtractRecords(html, testBaseURL, testLogger())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("no marker means structural failure", func(t *testing.T) {
		html := `<div class="content"><p>점검 중입니다.</p></div>`
		records, err := ExtractRecords(html, testBaseURL, testLogger())
		assert.ErrorIs(t, err, ErrStructureChanged)
		assert.Empty(t, records)
	})

	t.Run("header-only table without marker is structural", func(t *testing.T) {
		html := `<table><tbody>
		<tr><td>번호</td><td>시간</td><td>회사명</td><td>공시제목</td><td>제출인</td></tr>
		</tbody></table>`
		records, err := ExtractRecords(html, testBaseURL, testLogger())
		assert.ErrorIs(t, err, ErrStructureChanged)
		assert.Empty(t, records)
	})

	t.Run("lone message cell without marker is structural", func(t *testing.T) {
		html := `<table><tbody><tr><td>서비스 점검 중</td></tr></tbody></table>`
		records, err := ExtractRecords(html, testBaseURL, testLogger())
		assert.ErrorIs(t, err, ErrStructureChanged)
		assert.Empty(t, records)
	})
}

func TestExtractRecords_Idempotent(t *testing.T) {
	first, err := ExtractRecords(resultPageHTML, testBaseURL, testLogger())
	require.NoError(t, err)
	second, err := ExtractRecords(resultPageHTML, testBaseURL, testLogger())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
