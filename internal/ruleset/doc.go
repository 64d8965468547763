// Package ruleset drives sing-box through the geosite export and rule-set
// compile steps for a list of categories.
//
// Categories are processed one at a time in input order. For each category
// the export step writes geosite-<category>.json into the work directory and
// the compile step turns it into geosite-<category>.srs. A failed step is
// reported and the pipeline moves on to the next category; the intermediate
// JSON file is removed only after a successful compile. Nothing is persisted
// between runs, so running again redoes every category.
package ruleset
