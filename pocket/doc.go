// Package pocket provides a client for the Pocket v3 API.
//
// The API has three operations, all POST requests with JSON bodies carrying
// the consumer key and access token: retrieving saved items, saving a single
// new item, and sending a batch of mutations. Pocket reports failures through
// the X-Error-Code and X-Error response headers rather than the body; this
// package surfaces them as typed errors.
//
// # Features
//
//   - Retrieve with typed filter options, plus full-library paging
//   - Single-item add and batched mutations (archive, favorite, tags, ...)
//   - Immutable action batches safe to share and extend
//   - Typed errors distinguishing transport, API and decoding failures
//   - Rate-limit visibility from the X-Limit-* headers
//   - OAuth handshake helpers for obtaining an access token
//
// # Usage
//
//	client, err := pocket.NewClient(consumerKey, accessToken)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch unread articles
//	result, err := client.Retrieve(ctx, pocket.RetrieveOptions{
//	    State:       pocket.StateUnread,
//	    ContentType: pocket.ContentTypeArticle,
//	})
//
//	// Archive two of them and tag a third, in one call
//	batch := pocket.NewBatch().
//	    Archive("1001", "1002").
//	    TagsAdd(pocket.Tags{"golang", "later"}, "1003")
//	_, err = client.Send(ctx, batch)
//
// # Error Handling
//
// Failed calls return one of three types: *RequestError when the request
// never completed, *APIError for a non-2xx response, and *DecodeError for a
// success response with an undecodable body. APIError cooperates with
// errors.Is through the package sentinels:
//
//	if errors.Is(err, pocket.ErrRateLimited) {
//	    // back off
//	}
package pocket
