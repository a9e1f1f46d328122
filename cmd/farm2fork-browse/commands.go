package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/listingsync"

	"github.com/spf13/cobra"
)

// withSession открывает сессию, выполняет действие и закрывает ее
func withSession(opts *rootOptions, run func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, opts)
		if err != nil {
			return err
		}
		defer s.close()
		return run(cmd, args, s)
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Afficher la première page des fermes pour la vue courante",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, _ []string, s *session) error {
			ctx, cancel := s.requestContext(cmd, opts)
			defer cancel()

			if _, err := s.fetcher.Refresh(ctx); err != nil {
				return loadError(err)
			}
			printListings(s.out, s.store.Snapshot())
			return nil
		}),
	}
}

func newMoreCmd(opts *rootOptions) *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "more",
		Short: "Charger les pages suivantes",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, _ []string, s *session) error {
			if pages < 1 {
				return fmt.Errorf("--pages doit être au moins 1")
			}
			ctx, cancel := s.requestContext(cmd, opts)
			defer cancel()

			if _, err := s.fetcher.Refresh(ctx); err != nil {
				return loadError(err)
			}
			for i := 0; i < pages; i++ {
				if !s.store.Snapshot().Listings.HasMore {
					break
				}
				if _, err := s.fetcher.LoadMore(ctx); err != nil {
					return loadError(err)
				}
			}
			printListings(s.out, s.store.Snapshot())
			return nil
		}),
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "Nombre de pages supplémentaires à charger")
	return cmd
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "filter [catégorie valeur]",
		Short: "Activer ou désactiver un filtre",
		Long: `Sans argument, affiche les filtres actifs.
Avec une catégorie et une valeur, active le filtre ou le retire s'il est déjà actif.

Catégories : ` + categoryNames(),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("attendu : aucune ou deux valeurs (catégorie et valeur)")
			}
			return nil
		},
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			switch {
			case clearAll:
				s.store.ClearFilters()
				fmt.Fprintln(s.out, "Filtres réinitialisés.")
			case len(args) == 2:
				category, ok := domain.ParseFilterCategory(args[0])
				if !ok {
					return fmt.Errorf("catégorie inconnue %q (catégories : %s)", args[0], categoryNames())
				}
				s.store.ToggleFilter(category, args[1])
			default:
				s.bus.Publish(listingsync.UIEvent{Name: listingsync.EventOpenMobileFilters})
			}

			st := s.store.Snapshot()
			if len(args) == 0 && !clearAll && st.UI.IsFiltersOpen {
				printFilters(s.out, st.Filters)
				return nil
			}
			s.pushURL()
			return nil
		}),
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Retirer tous les filtres")
	return cmd
}

func newBoundsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bounds <sud_lat> <ouest_lng> <nord_lat> <est_lng>",
		Short: "Afficher les fermes visibles dans une zone de la carte",
		Args:  cobra.ExactArgs(4),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			coords := make([]float64, 4)
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("coordonnée invalide %q", a)
				}
				coords[i] = v
			}
			s.store.SetBounds(&domain.MapBounds{
				SouthWest: domain.LatLng{Lat: coords[0], Lng: coords[1]},
				NorthEast: domain.LatLng{Lat: coords[2], Lng: coords[3]},
			})

			ctx, cancel := s.requestContext(cmd, opts)
			defer cancel()

			if _, err := s.fetcher.Refresh(ctx); err != nil {
				return loadError(err)
			}
			printListings(s.out, s.store.Snapshot())
			return nil
		}),
	}
}

func newStateCmd(opts *rootOptions) *cobra.Command {
	var (
		lat, lng, zoom float64
		mapExpanded    bool
	)
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Afficher ou modifier la vue enregistrée",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, _ []string, s *session) error {
			flags := cmd.Flags()
			if flags.Changed("lat") || flags.Changed("lng") || flags.Changed("zoom") {
				st := s.store.Snapshot()
				center, z := st.Map.Center, st.Map.Zoom
				if flags.Changed("lat") {
					center.Lat = lat
				}
				if flags.Changed("lng") {
					center.Lng = lng
				}
				if flags.Changed("zoom") {
					z = zoom
				}
				s.store.SetView(center, z)
			}
			if flags.Changed("map-expanded") {
				s.store.SetMapExpanded(mapExpanded)
			}

			printState(s.out, s.store.Snapshot())
			return nil
		}),
	}
	cmd.Flags().Float64Var(&lat, "lat", listingsync.DefaultLat, "Latitude du centre")
	cmd.Flags().Float64Var(&lng, "lng", listingsync.DefaultLng, "Longitude du centre")
	cmd.Flags().Float64Var(&zoom, "zoom", listingsync.DefaultZoom, "Niveau de zoom")
	cmd.Flags().BoolVar(&mapExpanded, "map-expanded", false, "Carte agrandie")
	return cmd
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Lister les valeurs disponibles pour chaque filtre",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, _ []string, s *session) error {
			ctx, cancel := s.requestContext(cmd, opts)
			defer cancel()

			options, err := s.client.GetFilterOptions(ctx)
			if err != nil {
				return fmt.Errorf("impossible de charger les filtres : %w", err)
			}
			for _, c := range domain.AllFilterCategories {
				fmt.Fprintf(s.out, "%s : %s\n", c, strings.Join(options[c], ", "))
			}
			return nil
		}),
	}
}

func loadError(err error) error {
	if errors.Is(err, listingsync.ErrStaleResponse) {
		return fmt.Errorf("requête remplacée par une plus récente")
	}
	return fmt.Errorf("impossible de charger les fermes : %w", err)
}

func categoryNames() string {
	names := make([]string, len(domain.AllFilterCategories))
	for i, c := range domain.AllFilterCategories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
