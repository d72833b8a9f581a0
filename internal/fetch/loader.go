package fetch

import (
	"context"

	"github.com/washwatch/washwatch/pkg/page"
)

// FrameLoader adapts a Fetcher to the page.Loader interface so the resolver
// can pull frame documents through the same acquisition layer. Frame
// endpoints are server-rendered, so even under dynamic mode frames load fine
// through whichever fetcher is in use.
func FrameLoader(f Fetcher, opts Options) page.Loader {
	return page.LoaderFunc(func(ctx context.Context, src, referer string) (string, error) {
		frameOpts := opts
		frameOpts.Referer = referer
		content, err := f.Fetch(ctx, src, frameOpts)
		if err != nil {
			return "", err
		}
		return content.HTML, nil
	})
}
