package goquery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/heritage"
	"github.com/fwojciec/heritage/goquery"
	"github.com/fwojciec/heritage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexURL = "http://www.historic.org.nz/Register/Recent_Registrations.html"

const indexPage = `<!DOCTYPE html>
<html>
<body>
<ul>
	<li><a href="http://www.historic.org.nz/Register/ListingDetail.asp?RID=9301">Old Mill</a></li>
	<li><a href="/Register/ListingDetail.asp?RID=9417&amp;p=print">Stone Store</a></li>
	<li><a href="ListingDetail.asp?RID=12">Relative</a></li>
	<li><a href="/Register/ListingDetail.asp?RID=9301">Old Mill again</a></li>
	<li><a href="/Register/Search.asp?RID=99999">Not a detail page</a></li>
	<li><a href="mailto:info@example.org?RID=88888">Mail</a></li>
	<li><a href="/Register/ListingDetail.asp?RID=abc">Broken</a></li>
</ul>
</body>
</html>`

func TestRecordIDs(t *testing.T) {
	t.Parallel()

	ids, err := goquery.RecordIDs([]byte(indexPage), indexURL)

	require.NoError(t, err)
	assert.Equal(t, []int{9301, 9417, 12}, ids)
}

func TestMaxRecordID(t *testing.T) {
	t.Parallel()

	t.Run("returns the largest linked ID", func(t *testing.T) {
		t.Parallel()

		maxID, err := goquery.MaxRecordID([]byte(indexPage), indexURL)

		require.NoError(t, err)
		assert.Equal(t, 9417, maxID)
	})

	t.Run("defaults to 1 when nothing is linked", func(t *testing.T) {
		t.Parallel()

		maxID, err := goquery.MaxRecordID([]byte(`<html><body><a href="/about">About</a></body></html>`), indexURL)

		require.NoError(t, err)
		assert.Equal(t, 1, maxID)
	})

	t.Run("rejects an invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.MaxRecordID([]byte(indexPage), "://bad")

		require.Error(t, err)
		assert.Equal(t, heritage.EINVALID, heritage.ErrorCode(err))
	})
}

func TestDiscoverer_DiscoverMaxID(t *testing.T) {
	t.Parallel()

	t.Run("fetches the index and returns the max ID", func(t *testing.T) {
		t.Parallel()

		var fetched string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*heritage.Response, error) {
				fetched = url
				return &heritage.Response{URL: url, StatusCode: 200, Body: []byte(indexPage)}, nil
			},
		}

		maxID, err := goquery.NewDiscoverer(fetcher, indexURL).DiscoverMaxID(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 9417, maxID)
		assert.Equal(t, indexURL, fetched)
	})

	t.Run("fetch failure is a discovery error", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (*heritage.Response, error) {
				return nil, errors.New("connection refused")
			},
		}

		_, err := goquery.NewDiscoverer(fetcher, indexURL).DiscoverMaxID(context.Background())

		require.Error(t, err)
		assert.Equal(t, heritage.EDISCOVERY, heritage.ErrorCode(err))
		assert.Contains(t, err.Error(), "connection refused")
	})
}
