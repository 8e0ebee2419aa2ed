package main

import (
	"github.com/lehigh-university-libraries/metadown/cmd"

	// Register enrichment modes
	_ "github.com/lehigh-university-libraries/metadown/enrich/keywords"
	_ "github.com/lehigh-university-libraries/metadown/enrich/supplemental"
)

func main() {
	cmd.Execute()
}
