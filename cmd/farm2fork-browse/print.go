package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/listingsync"
)

func printListings(w io.Writer, st listingsync.State) {
	visible := st.Listings.Visible
	if len(visible) == 0 {
		fmt.Fprintln(w, "Aucune ferme ne correspond à votre recherche.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNOM\tADRESSE\tCERTIFICATIONS")
		for _, l := range visible {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", l.ID, l.Name, l.Address, strings.Join(l.Certifications, ", "))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "%d ferme(s) affichée(s), %d chargée(s) sur %d.\n", len(visible), len(st.Listings.All), st.Listings.TotalCount)
	if st.Listings.HasMore {
		fmt.Fprintln(w, "D'autres fermes sont disponibles : farm2fork-browse more")
	}
}

func printFilters(w io.Writer, filters domain.FilterState) {
	if filters.IsEmpty() {
		fmt.Fprintln(w, "Aucun filtre actif.")
		return
	}
	fmt.Fprintln(w, "Filtres actifs :")
	for _, c := range domain.AllFilterCategories {
		if values := filters.Selected(c); len(values) > 0 {
			fmt.Fprintf(w, "  %s : %s\n", c, strings.Join(values, ", "))
		}
	}
}

func printState(w io.Writer, st listingsync.State) {
	fmt.Fprintf(w, "Centre : %.6f, %.6f\n", st.Map.Center.Lat, st.Map.Center.Lng)
	fmt.Fprintf(w, "Zoom : %.3f\n", st.Map.Zoom)
	if st.UI.IsMapExpanded {
		fmt.Fprintln(w, "Carte : agrandie")
	} else {
		fmt.Fprintln(w, "Carte : normale")
	}
	printFilters(w, st.Filters)
	fmt.Fprintf(w, "Lien partageable : ?%s\n", listingsync.QueryString(st.View().Encode()))
}
