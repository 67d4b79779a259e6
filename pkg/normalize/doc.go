/*
Package normalize reduces heterogeneous webhook answers to formflow's canonical shapes.

A webhook may answer with a bare object, a one-element list, a { "json": ... } envelope,
an explicit "variables" mapping, or a flat set of top-level keys. Parse applies a fixed,
ordered chain of shape rules and never fails: empty or unreadable answers normalize to an
empty variable mapping.

Archive-style list answers are handled by FindTitles and NormalizeTitle.
*/
package normalize
