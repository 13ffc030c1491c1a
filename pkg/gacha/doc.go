/*
Package gacha turns a banner into a probability tree and draws from it.

The tree has three levels: the root, one node per rarity named by its star
count ("6" to "3"), and under each rarity an "up" leaf for rate-up operators
and a "standard" leaf for everyone else. Leaves carry a *Pool and the final
operator is picked uniformly from it.

Pity is applied to the rarity level before each draw: once a user has missed
the pity rarity Threshold times, its rate grows by Step per further miss and
the other rarities shrink proportionally. The level is reset after the draw.
*/
package gacha
