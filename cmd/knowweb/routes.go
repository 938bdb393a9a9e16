package main

import (
	"context"
	"os"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/knowweb/router"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func routes(ctx context.Context, cmd *cli.Command) error {
	app, _, err := loadApp(cmd)
	if err != nil {
		return err
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"score", "index", "path", "params", "page"})
	for _, ranked := range router.RankRoutes(app.Routes()) {
		path := ranked.Route.Path
		if ranked.Route.Default {
			path = "(default)"
		}
		tbl.Append([]string{
			strconv.Itoa(ranked.Score),
			strconv.Itoa(ranked.Index),
			path,
			strings.Join(sortedParams(ranked.Route), ", "),
			app.PageOf(ranked.Route.Pattern()),
		})
	}
	tbl.Render()
	return nil
}

func sortedParams(r *router.Route) []string {
	names := mapset.NewThreadUnsafeSet[string]()
	for _, segment := range router.Segmentize(r.Path) {
		switch {
		case strings.HasPrefix(segment, ":") && len(segment) > 1:
			names.Add(segment[1:])
		case segment == "*":
			names.Add("*")
		case strings.HasPrefix(segment, "*"):
			names.Add(segment[1:])
		}
	}
	out := names.ToSlice()
	slices.Sort(out)
	return out
}
