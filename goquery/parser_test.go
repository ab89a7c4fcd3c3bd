package goquery_test

import (
	"testing"

	"github.com/fwojciec/heritage"
	"github.com/fwojciec/heritage/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// detailPage wraps table rows in the markup of a register detail page.
func detailPage(rows string) []byte {
	return []byte(`<!DOCTYPE html>
<html>
<head><title>Register</title></head>
<body>
<table>
` + rows + `
</table>
</body>
</html>`)
}

func TestParser_ParseRecord(t *testing.T) {
	t.Parallel()

	t.Run("parses title, subtitle and mapped fields", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old   <b>Mill</b><br/>House</td></tr>
<tr><td class="ListingSubHeader">
	Main Road, Akaroa
</td></tr>
<tr><td class="listingfieldname">Region:</td><td>Canterbury</td></tr>
<tr><td class="listingfieldname">Register Number:</td><td>1234</td></tr>
<tr><td class="listingfieldname">Brief History:</td><td>
	<p>Built in 1850.</p>
	<p>Restored   in 1990.</p>
</td></tr>`)

		rec, diags, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, 22, rec.ID)
		assert.Equal(t, "Old Mill\nHouse", rec.Title)
		assert.Equal(t, "Main Road, Akaroa", rec.Subtitle)
		assert.Equal(t, map[string]string{
			heritage.KeyRegion:     "Canterbury",
			heritage.KeyRegisterNo: "1234",
			heritage.KeyHistory:    "Built in 1850.\nRestored in 1990.",
		}, rec.Fields)
		assert.Nil(t, rec.Coordinate)
		require.NoError(t, rec.Validate())
	})

	t.Run("page without title is a nonexistent record", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`<tr><td class="listingfieldname">Region:</td><td>Canterbury</td></tr>`)

		rec, diags, err := goquery.NewParser().ParseRecord(7, body)

		require.Error(t, err)
		assert.Nil(t, rec)
		assert.Nil(t, diags)
		assert.Equal(t, heritage.ENOTFOUND, heritage.ErrorCode(err))
	})

	t.Run("empty title is a nonexistent record", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`<tr><td class="ListingHeader">  <br> </td></tr>`)

		_, _, err := goquery.NewParser().ParseRecord(7, body)

		require.Error(t, err)
		assert.Equal(t, heritage.ENOTFOUND, heritage.ErrorCode(err))
	})

	t.Run("empty document is a nonexistent record", func(t *testing.T) {
		t.Parallel()

		_, _, err := goquery.NewParser().ParseRecord(7, nil)

		require.Error(t, err)
		assert.Equal(t, heritage.ENOTFOUND, heritage.ErrorCode(err))
	})

	t.Run("class names are matched case-sensitively", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`<tr><td class="listingheader">Old Mill</td></tr>`)

		_, _, err := goquery.NewParser().ParseRecord(7, body)

		assert.Equal(t, heritage.ENOTFOUND, heritage.ErrorCode(err))
	})

	t.Run("unrecognized label yields one diagnostic and no key", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill</td></tr>
<tr><td class="ListingSubHeader">Akaroa</td></tr>
<tr><td class="listingfieldname">Region:</td><td>Canterbury</td></tr>
<tr><td class="listingfieldname">Roof Material:</td><td>Corrugated iron</td></tr>`)

		rec, diags, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{heritage.KeyRegion: "Canterbury"}, rec.Fields)
		assert.NotContains(t, rec.Map(), "roof material")
		require.Len(t, diags, 1)
		assert.Equal(t, heritage.DiagnosticUnrecognizedField, diags[0].Kind)
		assert.Equal(t, 22, diags[0].ID)
		assert.Equal(t, "Roof Material:", diags[0].Label)
		assert.Equal(t, `field not found in map: "Roof Material:"`, diags[0].Message)
	})

	t.Run("missing subtitle is reported but the record succeeds", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`<tr><td class="ListingHeader">Old Mill</td></tr>`)

		rec, diags, err := goquery.NewParser().ParseRecord(3, body)

		require.NoError(t, err)
		assert.Equal(t, "Old Mill", rec.Title)
		assert.Empty(t, rec.Subtitle)
		require.Len(t, diags, 1)
		assert.Equal(t, heritage.DiagnosticMissingSubtitle, diags[0].Kind)
		assert.Equal(t, 3, diags[0].ID)
	})

	t.Run("coordinate field sets coordinate and drops its text", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill</td></tr>
<tr><td class="ListingSubHeader">Akaroa</td></tr>
<tr><td class="listingfieldname">GPS References:</td><td>Easting: 2667000<br>Northing: 6478000</td></tr>`)

		rec, _, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		require.NotNil(t, rec.Coordinate)
		assert.Equal(t, heritage.Coordinate{Easting: 2667000, Northing: 6478000}, *rec.Coordinate)
		assert.NotContains(t, rec.Fields, heritage.KeyGPSRef)
	})

	t.Run("coordinate field without a reference keeps its text", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill</td></tr>
<tr><td class="ListingSubHeader">Akaroa</td></tr>
<tr><td class="listingfieldname">NZ Archaeological Association Site Number:</td><td>M36/123</td></tr>`)

		rec, _, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Nil(t, rec.Coordinate)
		assert.Equal(t, "M36/123", rec.Fields[heritage.KeyNZAASiteNo])
	})

	t.Run("repeated label keeps the last value", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill</td></tr>
<tr><td class="ListingSubHeader">Akaroa</td></tr>
<tr><td class="listingfieldname">Region:</td><td>Otago</td></tr>
<tr><td class="listingfieldname">REGION</td><td>Canterbury</td></tr>`)

		rec, diags, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, "Canterbury", rec.Fields[heritage.KeyRegion])
	})

	t.Run("label without value cell fails with EPARSE", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill</td></tr>
<tr><td class="listingfieldname">Region:</td></tr>`)

		rec, _, err := goquery.NewParser().ParseRecord(22, body)

		require.Error(t, err)
		assert.Nil(t, rec)
		assert.Equal(t, heritage.EPARSE, heritage.ErrorCode(err))
	})

	t.Run("value that cannot be normalized is dropped", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill</td></tr>
<tr><td class="ListingSubHeader">Akaroa</td></tr>
<tr><td class="listingfieldname">Region:</td><td>Canterbury</td></tr>
<tr><td class="listingfieldname">Current Use:</td><td>Mill` + "\xff" + `</td></tr>`)

		rec, diags, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{heritage.KeyRegion: "Canterbury"}, rec.Fields)
		require.Len(t, diags, 1)
		assert.Equal(t, heritage.DiagnosticDroppedField, diags[0].Kind)
		assert.Equal(t, heritage.ENORMALIZE, diags[0].Code)
		assert.Equal(t, "Current Use:", diags[0].Label)
	})

	t.Run("newlines in page source are word separators", func(t *testing.T) {
		t.Parallel()

		body := detailPage("<tr><td class=\"ListingHeader\">Old\nChurch</td></tr>\n" +
			"<tr><td class=\"ListingSubHeader\">Main\r\nRoad</td></tr>\n" +
			"<tr><td class=\"listingfieldname\">Region:</td><td>Otago\nCoast</td></tr>")

		rec, _, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Equal(t, "Old Church", rec.Title)
		assert.Equal(t, "Main Road", rec.Subtitle)
		assert.Equal(t, "Otago Coast", rec.Fields[heritage.KeyRegion])
	})

	t.Run("script content is ignored", func(t *testing.T) {
		t.Parallel()

		body := detailPage(`
<tr><td class="ListingHeader">Old Mill<script>var x = 1;</script></td></tr>
<tr><td class="ListingSubHeader">Akaroa</td></tr>`)

		rec, _, err := goquery.NewParser().ParseRecord(22, body)

		require.NoError(t, err)
		assert.Equal(t, "Old Mill", rec.Title)
	})
}
