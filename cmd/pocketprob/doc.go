// 16 Oct 2026

/*
Pocketprob says how consistently pocket prediction programs find a
pocket at each atom and residue of an ensemble of structures.

Usage:
	pocketprob [flags] ref1.pdb [ref2.pdb ...]

The reference structures are the members of the ensemble, for example
NMR models or homology models, all in the same frame. Next to each one
sit the files written by the prediction programs:

	fpocket   ref_out/pockets/pocket*_atm.pdb  atoms named by serial number
	pass      ref_probes.pdb                   probe spheres
	ligsite   ref.pdb_pocket_r.pdb             probe points
	ghecom    ref_ghecom.pdb                   probe points

If a program's files are somewhere else, say -D ligsite=/some/dir.

For fpocket, an atom lines a pocket if its serial number is in one of
the pocket files. For the others, it lines a pocket if it is closer
than the radius (-r) to any probe. -d direct or -d spatial overrides
this.

For each program, we write
	prefix_program_atom.csv     probability per atom
	prefix_program_res.csv      probability per residue
	prefix_program_resfrac.csv  mean fraction of each residue's atoms lining a pocket
	prefix_program_summary.txt  quartiles of the above, and of the atom
	                            probabilities leaving out atoms never found
The csv files have lines like 12,0.75 where 12 is the atom or residue
number counting from 1. Probabilities are the number of structures in
which the atom was found, divided by the ensemble size.

With -a, the first reference structure is also written with the
probabilities (times 100) as B-factors, once per atom, once per
residue and once with the residue fractions. -c writes a chimera attribute file and -g a plot.

Water is ignored. Only the first model in a file is read.
Compressed (.gz) files are fine. mmcif files are not read.

Structures which cannot be read are reported and left out, but the
ensemble size does not change. If a structure has a different number
of atoms to the first, we complain, but carry on. These warnings and
errors always go to stderr. Progress goes to the log (-l) at debug
level.

Environment variables give defaults:
	POCKETPROB_RADIUS     4.0
	POCKETPROB_WORKERS    1
	POCKETPROB_PROGRAM    fpocket
	POCKETPROB_LOG        no logging
	POCKETPROB_LOG_LEVEL  info
	POCKETPROB_DIR_LIGSITE and so on, like -D
*/
package main
